//go:build !windows && !linux && !darwin && !freebsd

package debug

import "errors"

func residentBytes() (uint64, error) { return 0, errors.New("resident size not supported") }
