//go:build !windows

package nvapi

// Library is unavailable outside Windows; Open always fails.
type Library struct{}

var _ Driver = (*Library)(nil)

func Open() (*Library, error) {
	return nil, ErrNotSupported
}

func (l *Library) Close() error { return nil }

func (l *Library) GetDisplayConfig(_ *uint32, _ []PathInfo) Status { return LibraryNotFound }

func (l *Library) SetDisplayConfig(_ []PathInfo, _ uint32) Status { return LibraryNotFound }

func (l *Library) GetTiming(_ uint32, _ *TimingInput, _ *Timing) Status { return LibraryNotFound }

func (l *Library) TryCustomDisplay(_ []uint32, _ []CustomDisplay) Status { return LibraryNotFound }
