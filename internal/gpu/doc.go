// Package gpu backs taa history textures with the gogpu/wgpu HAL.
//
// The host owns the device. DeviceFromProvider extracts the hal.Device a
// host provider shares, TextureAllocator creates and destroys history
// textures and their views on it, and CompileWGSL turns the host's
// resolve shader into SPIR-V with naga.
package gpu
