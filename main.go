package main

// The package is compiled with -buildmode=c-shared; main is never run, but
// the build mode requires it.
func main() {}
