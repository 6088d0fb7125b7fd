package common

import (
	"errors"
	"fmt"
)

// 定义常见错误类型
var (
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnknownPolicy        = errors.New("unknown policy")
	ErrOverAllocation       = errors.New("over allocation")
	ErrOverRelease          = errors.New("over release")
	ErrEmptyPool            = errors.New("empty worker pool")
)

// OverAllocationError 节点资源不足时仍然尝试分配
type OverAllocationError struct {
	NodeID    int      `json:"node_id"`
	Requested Resource `json:"requested"`
	Available Resource `json:"available"`
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("%s: node %d cannot host %s, available %s",
		ErrOverAllocation, e.NodeID, e.Requested, e.Available)
}

func (e *OverAllocationError) Unwrap() error {
	return ErrOverAllocation
}

// NewOverAllocationError 创建超额分配错误
func NewOverAllocationError(nodeID int, requested, available Resource) *OverAllocationError {
	return &OverAllocationError{
		NodeID:    nodeID,
		Requested: requested,
		Available: available,
	}
}

// ValidationError 验证错误
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewValidationError 创建验证错误
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ValidateResource 验证资源配置
func ValidateResource(field string, resource Resource) error {
	if resource.Memory <= 0 {
		return NewValidationError(field+".memory", "must be greater than 0", resource.Memory)
	}
	if resource.VCores <= 0 {
		return NewValidationError(field+".vcores", "must be greater than 0", resource.VCores)
	}
	return nil
}
