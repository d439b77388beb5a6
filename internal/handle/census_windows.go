//nolint:govet // Walks the variable-length handle table returned by ntdll through unsafe pointers

// Package handle provides ownership and accounting of operating system handles.
package handle

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	classExtendedHandles = 64 // SystemExtendedHandleInformation
	classObjectType      = 2  // ObjectTypeInformation

	statusLengthMismatch = 0xC0000004
	sameAccess           = 0x00000002 // DUPLICATE_SAME_ACCESS

	initialTableSize = 1 << 20
)

var (
	ntdll           = windows.NewLazySystemDLL("ntdll.dll")
	procSystemInfo  = ntdll.NewProc("NtQuerySystemInformation")
	procQueryObject = ntdll.NewProc("NtQueryObject")
	procDuplicate   = ntdll.NewProc("NtDuplicateObject")
)

// tableEntry is one SYSTEM_HANDLE_TABLE_ENTRY_INFO_EX
type tableEntry struct {
	Object         uintptr
	OwnerPID       uintptr
	Value          uintptr
	GrantedAccess  uint32
	BackTraceIndex uint16
	TypeIndex      uint16
	Attributes     uint32
	_              uint32
}

// tableHeader precedes the entries of SYSTEM_HANDLE_INFORMATION_EX
type tableHeader struct {
	Count uintptr
	_     uintptr
	First [1]tableEntry
}

type ntString struct {
	Length    uint16
	MaxLength uint16
	Buffer    *uint16
}

func (s *ntString) String() string {
	if s.Buffer == nil || s.Length == 0 {
		return ""
	}
	return windows.UTF16ToString(unsafe.Slice(s.Buffer, s.Length/2))
}

// ntCall invokes an ntdll routine and turns a non-zero NTSTATUS into an error
func ntCall(proc *windows.LazyProc, args ...uintptr) error {
	status, _, _ := syscall.SyscallN(proc.Addr(), args...)
	if status != 0 {
		return syscall.Errno(status)
	}
	return nil
}

// Census counts the handles currently open in a process, keyed by object
// type name ("File", "Process", "Thread", "Event", ...). Handles whose type
// cannot be queried are counted under "Unknown".
func Census(processID uint32) (map[string]int, error) {
	table, err := snapshotTable()
	if err != nil {
		return nil, err
	}

	owner, err := windows.OpenProcess(windows.PROCESS_DUP_HANDLE, false, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to open process %d: %w", processID, err)
	}
	defer func() {
		_ = windows.CloseHandle(owner)
	}()

	header := (*tableHeader)(unsafe.Pointer(&table[0]))
	entries := unsafe.Slice(&header.First[0], int(header.Count))

	counts := make(map[string]int)
	for i := range entries {
		if uint32(entries[i].OwnerPID) != processID {
			continue
		}
		counts[typeOf(owner, windows.Handle(entries[i].Value))]++
	}
	return counts, nil
}

// snapshotTable copies the system-wide extended handle table, growing the
// buffer until it fits
func snapshotTable() ([]byte, error) {
	size := uint32(initialTableSize)
	for {
		table := make([]byte, size)
		var needed uint32
		err := ntCall(procSystemInfo,
			classExtendedHandles,
			uintptr(unsafe.Pointer(&table[0])),
			uintptr(size),
			uintptr(unsafe.Pointer(&needed)),
		)
		if err == nil {
			return table, nil
		}
		if errno, ok := err.(syscall.Errno); ok && errno == statusLengthMismatch {
			// The table can grow between calls
			size = needed + initialTableSize
			continue
		}
		return nil, fmt.Errorf("NtQuerySystemInformation failed: %w", err)
	}
}

// typeOf borrows a copy of a handle owned by another process and asks for its
// object type name
func typeOf(owner, h windows.Handle) string {
	var local windows.Handle
	err := ntCall(procDuplicate,
		uintptr(owner),
		uintptr(h),
		uintptr(windows.CurrentProcess()),
		uintptr(unsafe.Pointer(&local)),
		0,
		0,
		sameAccess,
	)
	if err != nil {
		return "Unknown"
	}
	defer func() {
		_ = windows.CloseHandle(local)
	}()

	info := make([]byte, 1024)
	var needed uint32
	err = ntCall(procQueryObject,
		uintptr(local),
		classObjectType,
		uintptr(unsafe.Pointer(&info[0])),
		uintptr(len(info)),
		uintptr(unsafe.Pointer(&needed)),
	)
	if err != nil {
		return "Unknown"
	}

	name := (*ntString)(unsafe.Pointer(&info[0])).String()
	if name == "" {
		return "Unknown"
	}
	return name
}
