package common

import "fmt"

// 默认节点容量
const (
	DefaultNodeVCores int32 = 24
	DefaultNodeMemory int64 = 64
	DefaultNodeCount        = 128
)

// Resource 表示资源配置
type Resource struct {
	Memory int64 `json:"memory" yaml:"memory"` // 内存单位
	VCores int32 `json:"vcores" yaml:"vcores"` // 虚拟核心数
}

// DefaultNodeCapacity 返回单个节点的默认容量
func DefaultNodeCapacity() Resource {
	return Resource{Memory: DefaultNodeMemory, VCores: DefaultNodeVCores}
}

// Fits 检查 r 是否能容纳 required
func (r Resource) Fits(required Resource) bool {
	return r.VCores >= required.VCores && r.Memory >= required.Memory
}

// Add 资源相加
func (r Resource) Add(other Resource) Resource {
	return Resource{Memory: r.Memory + other.Memory, VCores: r.VCores + other.VCores}
}

// Subtract 资源相减
func (r Resource) Subtract(other Resource) Resource {
	return Resource{Memory: r.Memory - other.Memory, VCores: r.VCores - other.VCores}
}

// Multiply 资源按倍数放大
func (r Resource) Multiply(n int) Resource {
	return Resource{Memory: r.Memory * int64(n), VCores: r.VCores * int32(n)}
}

func (r Resource) String() string {
	return fmt.Sprintf("Resource{Memory: %d, VCores: %d}", r.Memory, r.VCores)
}
