//go:build windows

package console

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

var (
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	attachConsole    = kernel32.NewProc("AttachConsole")
	getStdHandle     = kernel32.NewProc("GetStdHandle")
	setConsoleTitleW = kernel32.NewProc("SetConsoleTitleW")
)

const (
	ATTACH_PARENT_PROCESS = ^uint32(0) // -1 as uint32
	STD_INPUT_HANDLE      = ^uint32(0) - 10 + 1
	STD_OUTPUT_HANDLE     = ^uint32(0) - 11 + 1
	STD_ERROR_HANDLE      = ^uint32(0) - 12 + 1
)

func validHandle(h uintptr) bool {
	return h != 0 && h != uintptr(syscall.InvalidHandle)
}

// Attach connects a GUI-subsystem build to the console it was started from.
// Returns false when there is no parent console; no new window is opened.
func Attach() bool {
	stdOutputHandle, _, _ := getStdHandle.Call(uintptr(STD_OUTPUT_HANDLE))
	if validHandle(stdOutputHandle) {
		attached = true
		return true
	}

	if ok, _, _ := attachConsole.Call(uintptr(ATTACH_PARENT_PROCESS)); ok == 0 {
		return false
	}

	stdOutputHandle, _, _ = getStdHandle.Call(uintptr(STD_OUTPUT_HANDLE))
	stdErrorHandle, _, _ := getStdHandle.Call(uintptr(STD_ERROR_HANDLE))
	stdInputHandle, _, _ := getStdHandle.Call(uintptr(STD_INPUT_HANDLE))

	if validHandle(stdOutputHandle) {
		os.Stdout = os.NewFile(stdOutputHandle, "/dev/stdout")
	}
	if validHandle(stdErrorHandle) {
		os.Stderr = os.NewFile(stdErrorHandle, "/dev/stderr")
	}
	if validHandle(stdInputHandle) {
		os.Stdin = os.NewFile(stdInputHandle, "/dev/stdin")
	}

	attached = true
	return true
}

// SetTitle sets the console window title
func SetTitle(title string) error {
	if !attached {
		return nil
	}

	titlePtr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return err
	}

	r1, _, err := setConsoleTitleW.Call(uintptr(unsafe.Pointer(titlePtr)))
	if r1 == 0 {
		return fmt.Errorf("SetConsoleTitle failed: %v", err)
	}
	return nil
}
