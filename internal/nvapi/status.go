package nvapi

import (
	"errors"
	"fmt"
)

// Status is the integer result of a driver call. OK is the only success value.
type Status int32

const (
	OK                                     Status = 0
	Error                                  Status = -1
	LibraryNotFound                        Status = -2
	NoImplementation                       Status = -3
	APINotInitialized                      Status = -4
	InvalidArgument                        Status = -5
	NvidiaDeviceNotFound                   Status = -6
	EndEnumeration                         Status = -7
	InvalidHandle                          Status = -8
	IncompatibleStructVersion              Status = -9
	HandleInvalidated                      Status = -10
	InvalidPointer                         Status = -14
	ExpectedLogicalGPUHandle               Status = -100
	ExpectedPhysicalGPUHandle              Status = -101
	ExpectedDisplayHandle                  Status = -102
	InvalidCombination                     Status = -103
	NotSupported                           Status = -104
	PortIDNotFound                         Status = -105
	InvalidPerfLevel                       Status = -107
	DeviceBusy                             Status = -108
	ArgumentExceedMaxSize                  Status = -116
	DeviceSwitchingNotAllowed              Status = -117
	DataNotFound                           Status = -121
	RequiresReboot                         Status = -124
	MixedTargetTypes                       Status = -126
	ImplicitSetGPUTopologyChangeNotAllowed Status = -128
	OutOfMemory                            Status = -130
	FileNotFound                           Status = -132
	InvalidCall                            Status = -134
	FunctionNotFound                       Status = -136
	InvalidUserPrivilege                   Status = -137
)

var statusMessages = map[Status]string{
	Error:                                  "generic driver error",
	LibraryNotFound:                        "nvapi library not found",
	NoImplementation:                       "function not implemented in this driver version",
	APINotInitialized:                      "nvapi not initialized",
	InvalidArgument:                        "invalid argument",
	NvidiaDeviceNotFound:                   "no NVIDIA display driver or GPU found",
	EndEnumeration:                         "no more items to enumerate",
	InvalidHandle:                          "invalid handle",
	IncompatibleStructVersion:              "incompatible struct version",
	HandleInvalidated:                      "handle is no longer valid",
	InvalidPointer:                         "invalid pointer",
	ExpectedLogicalGPUHandle:               "expected a logical GPU handle",
	ExpectedPhysicalGPUHandle:              "expected a physical GPU handle",
	ExpectedDisplayHandle:                  "expected an NV display handle",
	InvalidCombination:                     "invalid combination of parameters",
	NotSupported:                           "requested feature is not supported",
	PortIDNotFound:                         "port id not found",
	InvalidPerfLevel:                       "invalid performance level",
	DeviceBusy:                             "device is busy",
	ArgumentExceedMaxSize:                  "argument exceeds maximum size",
	DeviceSwitchingNotAllowed:              "device switching is not allowed",
	DataNotFound:                           "requested data was not found",
	RequiresReboot:                         "a reboot is required for the change to take effect",
	MixedTargetTypes:                       "mixed target types are not supported",
	ImplicitSetGPUTopologyChangeNotAllowed: "the display configuration would change the GPU topology",
	OutOfMemory:                            "driver is out of memory",
	FileNotFound:                           "file not found",
	InvalidCall:                            "invalid call",
	FunctionNotFound:                       "function not found in the driver",
	InvalidUserPrivilege:                   "insufficient privileges",
}

// Message translates the status into a human-readable string. Unknown codes
// translate to "unknown status <code>".
func (s Status) Message() string {
	if s == OK {
		return "success"
	}
	if m, ok := statusMessages[s]; ok {
		return m
	}
	return fmt.Sprintf("unknown status %d", int32(s))
}

func (s Status) String() string {
	return s.Message()
}

// DriverError is returned when a driver call completes with a non-OK status.
type DriverError struct {
	Op     string
	Status Status
}

// NewDriverError wraps a failed status. It must not be called with OK.
func NewDriverError(op string, st Status) *DriverError {
	return &DriverError{Op: op, Status: st}
}

func (e *DriverError) Error() string {
	if e.Op == "" {
		return e.Status.Message()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Status.Message())
}

// Is matches any *DriverError carrying the same status, so callers can test
// errors.Is(err, &nvapi.DriverError{Status: nvapi.DeviceBusy}).
func (e *DriverError) Is(target error) bool {
	var t *DriverError
	if !errors.As(target, &t) {
		return false
	}
	return t.Status == e.Status
}

// StatusOf extracts the driver status from err, reporting false if err does
// not carry one.
func StatusOf(err error) (Status, bool) {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Status, true
	}
	return OK, false
}
