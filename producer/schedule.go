package producer

// Scheduler defers an operation. An operation handed to a scheduler has to
// be run eventually, after the current synchronous work has finished.
type Scheduler func(op func())

// Immediate runs operations right away. It is the default scheduler.
func Immediate(op func()) {
	op()
}

// Batch is a scheduler collecting operations until flushed, e.g. once per
// frame of a host application. The zero value is an empty batch.
//
//	batch := &producer.Batch{}
//	interest := producer.Produce(rules, producer.Options{Schedule: batch.Schedule})
//	…
//	batch.Flush()
type Batch struct {
	queue []func()
}

// Schedule is a Scheduler queueing op.
func (b *Batch) Schedule(op func()) {
	b.queue = append(b.queue, op)
}

// Len returns the number of queued operations.
func (b *Batch) Len() int {
	return len(b.queue)
}

// Flush runs all queued operations and returns their number. Operations
// scheduled while flushing are queued for the next flush.
func (b *Batch) Flush() int {
	ops := b.queue
	b.queue = nil
	for _, op := range ops {
		op()
	}
	return len(ops)
}
