/*
Package stypro produces CSS style sheets from structured, reactively changing
style rules.

Style rules form a tree. Every rule has a structured selector and a bag of
typed property values (package value), and notifies interested parties of
changes to its properties. A producer (package producer) subscribes to a set
of rules, runs every change through a chain of renderers and applies the
result to a style sheet (package cssom). Rendering is scheduled, so a burst
of changes to a rule results in a single update of the style sheet.

This package holds the contracts between the rule tree and the producer.
Package rules has an in-memory implementation of them.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package stypro
