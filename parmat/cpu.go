// Copyright 2025 The go-parmat Authors. SPDX-License-Identifier: Apache-2.0

package parmat

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Feature is a named CPU capability and whether the running CPU has it.
type Feature struct {
	Name    string
	Present bool
}

// CPUFeatures reports the CPU features golang.org/x/sys/cpu detects for the
// current architecture. Architectures other than amd64 and arm64 report
// nothing.
func CPUFeatures() []Feature {
	switch runtime.GOARCH {
	case "amd64":
		return []Feature{
			{"sse2", cpu.X86.HasSSE2},
			{"sse41", cpu.X86.HasSSE41},
			{"sse42", cpu.X86.HasSSE42},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"fma", cpu.X86.HasFMA},
			{"avx512f", cpu.X86.HasAVX512F},
			{"avx512bw", cpu.X86.HasAVX512BW},
			{"avx512vl", cpu.X86.HasAVX512VL},
		}
	case "arm64":
		return []Feature{
			{"fp", cpu.ARM64.HasFP},
			{"asimd", cpu.ARM64.HasASIMD},
			{"asimdhp", cpu.ARM64.HasASIMDHP},
			{"sve", cpu.ARM64.HasSVE},
			{"sve2", cpu.ARM64.HasSVE2},
			{"atomics", cpu.ARM64.HasATOMICS},
		}
	default:
		return nil
	}
}

// CacheLineSize is the size in bytes of the padding used to keep
// per-worker counters on separate cache lines.
const CacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))
