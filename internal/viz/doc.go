// Package viz plays back recorded probability distributions in the terminal.
//
// Frames are drawn as ASCII plots. Controls:
//
//	space  play / pause
//	← →    previous / next frame
//	home   rewind
//	q      quit
package viz
