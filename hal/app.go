package hal

// App is what a runner drives: Run blocks in the dispatcher until Stop.
type App interface {
	Run() error
	Stop()
}
