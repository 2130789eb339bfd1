// Package parallel runs independent sprite jobs on a small work-stealing
// goroutine pool.
//
// Each worker owns a queue and steals from its neighbours when idle, so a
// slow job (a large PNG, a file on a cold disk) does not leave the other
// workers waiting behind it.
package parallel
