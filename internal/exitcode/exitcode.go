package exitcode

const (
	Success       = 0
	UsageError    = 1
	PackLoadError = 2
	ParseError    = 3
	DBConnError   = 4
	StoreError    = 5
)
