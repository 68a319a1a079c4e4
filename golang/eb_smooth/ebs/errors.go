package ebs

import "fmt"

//ConfigurationError reports invalid inputs detected before the fixed-point
//loop starts: bad block starts, bad options or inconsistent statistics.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

//NumericalError reports a numerical failure inside an estimation loop: a
//singular posterior solve, a decay cubic with no real root or a
//non-positive precision denominator. Iteration and Hyperprs hold the loop
//state at the moment of failure so the caller can diagnose the run;
//Iteration is zero when the failure happened outside the main loop.
type NumericalError struct {
	Msg       string
	Iteration int
	Hyperprs  Hyperparameters
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("numerical failure at iteration %d (alpha=%g rho=%g nsevar=%g): %s",
		e.Iteration, e.Hyperprs.Alpha, e.Hyperprs.Rho, e.Hyperprs.Nsevar, e.Msg)
}

func numErrorAt(iter int, hyp Hyperparameters, msg string) error {
	return &NumericalError{Msg: msg, Iteration: iter, Hyperprs: hyp}
}
