// Package speech estimates how long a piece of narration text takes to speak.
//
// The estimate is a dimensionless weight built by counting character classes:
// capitals and digits read slightly slower than lowercase letters, and
// punctuation adds a pause. The absolute values carry no meaning on their own;
// callers compare weights from the same computation to distribute a measured
// audio duration across fragments of text.
package speech
