package nvapi

import "fmt"

// Function ids resolved through nvapi_QueryInterface.
const (
	fnInitialize       uint32 = 0x0150E828
	fnUnload           uint32 = 0xD22BDD7E
	fnGetDisplayConfig uint32 = 0x11ABCCF8
	fnSetDisplayConfig uint32 = 0x5D8CF8DE
	fnGetTiming        uint32 = 0x175167E9
	fnTryCustomDisplay uint32 = 0x1F7DB630
)

var requiredFunctions = []uint32{
	fnInitialize, fnUnload, fnGetDisplayConfig,
	fnSetDisplayConfig, fnGetTiming, fnTryCustomDisplay,
}

// resolveFunctions looks up every function nvdisplay calls. On failure it
// calls release so the caller does not keep a half-opened library.
func resolveFunctions(query func(id uint32) uintptr, release func()) (map[uint32]uintptr, error) {
	fns := make(map[uint32]uintptr, len(requiredFunctions))
	for _, id := range requiredFunctions {
		ptr := query(id)
		if ptr == 0 {
			release()
			return nil, fmt.Errorf("resolving function 0x%08X: %w", id, NewDriverError("", FunctionNotFound))
		}
		fns[id] = ptr
	}
	return fns, nil
}
