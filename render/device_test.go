// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gpucontext"
)

type infoHandle struct {
	NullDeviceHandle
	typ gpucontext.AdapterType
}

func (h infoHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: h.typ}
}

func TestIsSoftwareAdapter(t *testing.T) {
	tests := []struct {
		name string
		h    DeviceHandle
		want bool
	}{
		{"nil", nil, true},
		{"null", NullDeviceHandle{}, false},
		{"software", infoHandle{typ: gpucontext.AdapterTypeSoftware}, true},
		{"discrete", infoHandle{typ: gpucontext.AdapterTypeDiscrete}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSoftwareAdapter(tt.h); got != tt.want {
				t.Errorf("IsSoftwareAdapter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var h NullDeviceHandle
	if h.Device() != nil || h.Queue() != nil || h.Adapter() != nil {
		t.Error("NullDeviceHandle returned a device")
	}
	if got := h.AdapterInfo().Type; got != gpucontext.AdapterTypeUnknown {
		t.Errorf("AdapterInfo().Type = %v, want unknown", got)
	}
}
