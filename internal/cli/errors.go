package cli

// UsageError marks argument problems so main can exit with the usage code
// after help was already printed.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }
