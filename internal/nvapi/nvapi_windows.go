//go:build windows

package nvapi

import (
	"fmt"
	"log/slog"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Library is the loaded driver API. It implements Driver.
type Library struct {
	fns map[uint32]uintptr
}

var _ Driver = (*Library)(nil)

func dllName() string {
	if unsafe.Sizeof(uintptr(0)) == 4 {
		return "nvapi.dll"
	}
	return "nvapi64.dll"
}

// Open loads the driver DLL, resolves the functions nvdisplay uses and
// initializes the API. Close must be called when done.
func Open() (*Library, error) {
	name := dllName()
	dll := windows.NewLazySystemDLL(name)
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	release := func() {
		if err := windows.FreeLibrary(windows.Handle(dll.Handle())); err != nil {
			slog.Debug("freeing nvapi dll", "error", err)
		}
	}

	query := dll.NewProc("nvapi_QueryInterface")
	if err := query.Find(); err != nil {
		release()
		return nil, fmt.Errorf("finding nvapi_QueryInterface: %w", err)
	}

	fns, err := resolveFunctions(func(id uint32) uintptr {
		ptr, _, _ := query.Call(uintptr(id))
		return ptr
	}, release)
	if err != nil {
		return nil, err
	}
	l := &Library{fns: fns}

	r, _, _ := syscall.SyscallN(l.fns[fnInitialize])
	if st := Status(int32(r)); st != OK {
		release()
		return nil, NewDriverError("initializing nvapi", st)
	}
	slog.Debug("nvapi initialized", "dll", name)

	return l, nil
}

// Close unloads the driver API.
func (l *Library) Close() error {
	r, _, _ := syscall.SyscallN(l.fns[fnUnload])
	if st := Status(int32(r)); st != OK {
		return NewDriverError("unloading nvapi", st)
	}
	return nil
}

func (l *Library) GetDisplayConfig(count *uint32, paths []PathInfo) Status {
	var first *PathInfo
	if len(paths) > 0 {
		first = &paths[0]
	}
	r, _, _ := syscall.SyscallN(l.fns[fnGetDisplayConfig],
		uintptr(unsafe.Pointer(count)),
		uintptr(unsafe.Pointer(first)),
	)
	return Status(int32(r))
}

func (l *Library) SetDisplayConfig(paths []PathInfo, flags uint32) Status {
	var first *PathInfo
	if len(paths) > 0 {
		first = &paths[0]
	}
	r, _, _ := syscall.SyscallN(l.fns[fnSetDisplayConfig],
		uintptr(len(paths)),
		uintptr(unsafe.Pointer(first)),
		uintptr(flags),
	)
	return Status(int32(r))
}

func (l *Library) GetTiming(displayID uint32, in *TimingInput, out *Timing) Status {
	r, _, _ := syscall.SyscallN(l.fns[fnGetTiming],
		uintptr(displayID),
		uintptr(unsafe.Pointer(in)),
		uintptr(unsafe.Pointer(out)),
	)
	return Status(int32(r))
}

func (l *Library) TryCustomDisplay(displayIDs []uint32, displays []CustomDisplay) Status {
	if len(displayIDs) == 0 || len(displayIDs) != len(displays) {
		return InvalidArgument
	}
	r, _, _ := syscall.SyscallN(l.fns[fnTryCustomDisplay],
		uintptr(unsafe.Pointer(&displayIDs[0])),
		uintptr(len(displayIDs)),
		uintptr(unsafe.Pointer(&displays[0])),
	)
	return Status(int32(r))
}
