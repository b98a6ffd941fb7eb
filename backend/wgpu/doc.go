// Package wgpu implements the hardware probe backend on top of
// gogpu/wgpu.
//
// The probe opens a wgpu instance, requests the high-performance
// adapter, and answers identity-string and limit queries from the
// adapter info and device limits. It is the source of hardware truth
// when the resolution chain falls through every configured layer.
//
// Importing the package registers the probe under the name "wgpu":
//
//	import _ "github.com/veilgpu/veil/backend/wgpu"
//
// A host application that already owns a GPU device can share it via
// SetDeviceProvider before Init. The probe then skips creating a
// second logical device; limit queries answer not-found in that mode
// because wgpu exposes limits per owned device.
package wgpu
