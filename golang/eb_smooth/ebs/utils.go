package ebs

import "log"

//HandleError panics on a non-nil error. Reserved for must-succeed local
//operations such as closing files that were just opened.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}

//clamp restricts v to the closed interval [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
