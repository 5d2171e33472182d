package utils

import (
	"os"
	"path/filepath"
)

func FileExist(path string) bool {
	_, err := os.Lstat(path)
	return !os.IsNotExist(err)
}

// 用于 promptui 的 Validate.
func IsFilePath(s string) error {
	if s == "" {
		return ErrNilParameter
	}
	if dir := filepath.Dir(s); dir != "." && dir != "/" {
		if !FileExist(dir) {
			return ErrInErr{ErrDesc: "directory not exist", Data: dir}
		}
	}
	return nil
}

// Search the specified file in the following directories:
//  0. if starts with '/', return directly
//	1. Same folder with exec file
//  2. Same folder of working folder
func GetFilePath(fileName string) string {

	if fileName == "" {
		return ""
	}

	if filepath.IsAbs(fileName) {
		return fileName
	}

	if execFile, err := os.Executable(); err == nil {

		p := filepath.Join(filepath.Dir(execFile), fileName)

		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return fileName
}
