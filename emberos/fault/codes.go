package fault

// Code is a stable error identifier. Codes are grouped by kind: contract
// faults are always routed through the policy handler, device and
// configuration errors travel as ordinary error values.
type Code uint32

const (
	None Code = iota

	// Programming-contract faults.
	InvalidPointer
	InvalidID
	InvalidPin
	InvalidIndex
	InvalidLength
	InvalidPos
	InvalidSignal
	InvalidTime
	InvalidType
	TooSmall
	TooManyAttempts
	QueueOverflow
	InvariantFailed

	// Device and operational errors.
	DeviceInitFailed
	DeviceNotFound
	DeviceFailed
	ReadFailed
	WriteFailed
	EraseFailed
	StopFailed
	Timeout
	NoMemory

	// Configuration errors.
	UnknownType
	IDNotFound
	PermissionDenied
	InitFailed
	OperationFailed

	numCodes
)

var codeDescs = [...]string{
	None:             "No Error",
	InvalidPointer:   "Invalid Pointer",
	InvalidID:        "Invalid ID",
	InvalidPin:       "Invalid Pin",
	InvalidIndex:     "Invalid Index",
	InvalidLength:    "Invalid Length",
	InvalidPos:       "Invalid Position",
	InvalidSignal:    "Invalid Signal",
	InvalidTime:      "Invalid Time",
	InvalidType:      "Invalid Type",
	TooSmall:         "Too Small",
	TooManyAttempts:  "Too Many Attempts",
	QueueOverflow:    "Queue Overflow",
	InvariantFailed:  "Invariant Failure",
	DeviceInitFailed: "Device Init Failed",
	DeviceNotFound:   "Device Not Found",
	DeviceFailed:     "Device Failed",
	ReadFailed:       "Read Failed",
	WriteFailed:      "Write Failed",
	EraseFailed:      "Erase Failed",
	StopFailed:       "Stop Failed",
	Timeout:          "Time-Out",
	NoMemory:         "No Memory",
	UnknownType:      "Unknown Type",
	IDNotFound:       "ID Not Found",
	PermissionDenied: "Permission Denied",
	InitFailed:       "Init Failed",
	OperationFailed:  "Operation Failed",
}

// String returns the short description for the code. Unknown codes map to
// "Unknown".
func (c Code) String() string {
	if c >= numCodes || codeDescs[c] == "" {
		return "Unknown"
	}
	return codeDescs[c]
}

// Error makes Code usable as an ordinary error value for the device and
// configuration groups.
func (c Code) Error() string { return c.String() }

// Of extracts a Code from an error, defaulting to OperationFailed.
func Of(err error) Code {
	if err == nil {
		return None
	}
	if c, ok := err.(Code); ok {
		return c
	}
	var f *Fault
	if ok := asFault(err, &f); ok {
		return f.Code
	}
	return OperationFailed
}

func asFault(err error, out **Fault) bool {
	f, ok := err.(*Fault)
	if ok {
		*out = f
	}
	return ok
}
