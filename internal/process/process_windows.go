//go:build windows

package process

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

type wmiLister struct{}

// System returns the Lister for this platform
func System() Lister {
	return wmiLister{}
}

// List queries Win32_Process through WMI. The command line is reported as a single argument.
func (wmiLister) List(ctx context.Context) ([]Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ole.CoInitialize(0)
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, fmt.Errorf("failed to create WMI locator: %w", err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("failed to get IDispatch interface: %w", err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to WMI: %w", err)
	}
	service := serviceRaw.ToIDispatch()
	defer service.Release()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", "SELECT Name, CommandLine FROM Win32_Process")
	if err != nil {
		return nil, fmt.Errorf("failed to query processes: %w", err)
	}
	result := resultRaw.ToIDispatch()
	defer result.Release()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return nil, fmt.Errorf("failed to count processes: %w", err)
	}
	count := int(countVar.Val)

	procs := make([]Process, 0, count)
	for i := 0; i < count; i++ {
		itemRaw, err := oleutil.CallMethod(result, "ItemIndex", i)
		if err != nil {
			continue
		}
		item := itemRaw.ToIDispatch()

		var p Process
		if name, err := oleutil.GetProperty(item, "Name"); err == nil {
			p.Name = name.ToString()
		}
		// CommandLine is null for processes we may not inspect
		if cmdline, err := oleutil.GetProperty(item, "CommandLine"); err == nil && cmdline.Value() != nil {
			p.Args = []string{cmdline.ToString()}
		}
		item.Release()

		procs = append(procs, p)
	}

	return procs, nil
}
