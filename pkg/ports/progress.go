package ports

// Progress reports advancement of a long-running stage.
type Progress interface {
	Start(total int, description string)
	Increment()
	Finish()
}
