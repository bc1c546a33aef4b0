// Package mediabus coordinates which media player is allowed to play.
//
// Players register a stop callback under a unique identifier. Claiming the bus
// stops every other registered player before the claim returns, so at most one
// player is audible at a time. There is no arbiter beyond call order: two
// near-simultaneous claims both succeed and the later one wins.
package mediabus
