// Package audio turns sound references into audible output.
//
// A Backend walks an ordered chain of mechanisms (external players) until
// one succeeds. A Player plays a playlist track by track through the
// Backend. A Queue owns all playback: the poll loop hands it requests and
// a single worker plays them in FIFO order, so at most one sound is
// audible at a time.
package audio
