// SPDX-License-Identifier: MPL-2.0

//go:build windows

package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// platformLoader probes with LoadLibraryEx/FreeLibrary and reads the file
// version resource.
type platformLoader struct{}

// TryLoad implements Loader.
func (platformLoader) TryLoad(path string) (bool, string) {
	handle, err := windows.LoadLibraryEx(path, 0, windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS|windows.LOAD_LIBRARY_SEARCH_DLL_LOAD_DIR)
	if err != nil {
		return false, err.Error()
	}
	_ = windows.FreeLibrary(handle)
	return true, ""
}

// FileVersion implements Loader: reads the fixed file-version resource.
func (platformLoader) FileVersion(path string) (string, bool) {
	size, err := windows.GetFileVersionInfoSize(path, nil)
	if err != nil || size == 0 {
		return "", false
	}
	data := make([]byte, size)
	if err := windows.GetFileVersionInfo(path, 0, size, unsafe.Pointer(&data[0])); err != nil {
		return "", false
	}

	var fixed *windows.VS_FIXEDFILEINFO
	var fixedLen uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&data[0]), `\`, unsafe.Pointer(&fixed), &fixedLen); err != nil {
		return "", false
	}
	if fixed == nil || fixedLen == 0 {
		return "", false
	}
	return fmt.Sprintf("%d.%d.%d.%d",
		fixed.FileVersionMS>>16, fixed.FileVersionMS&0xffff,
		fixed.FileVersionLS>>16, fixed.FileVersionLS&0xffff), true
}

// systemLibraryDirs lists the fallback directories for bare-filename
// references; drivers routinely name a DLL already present in System32.
func systemLibraryDirs() []string {
	systemRoot := os.Getenv("SystemRoot")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	return []string{
		filepath.Join(systemRoot, "System32"),
		filepath.Join(systemRoot, "SysWOW64"),
	}
}
