// Package autoplay plays games without a human.
//
// Player has a perfect memory: it records every token it sees and only
// finishes a group when it knows where every copy of the token is. Otherwise
// it reveals a cell it has never seen. Play drives any Board (an
// *engine.Session) to completion, and Run plays batches of games on manual
// clocks to report the score distribution of a configuration.
package autoplay
