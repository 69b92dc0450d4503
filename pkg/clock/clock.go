package clock

import "time"

// Clock 时间来源，服务层通过它获取当前时间，便于测试固定时间
type Clock interface {
	Now() time.Time
}

// Real 系统时钟
type Real struct{}

// Now 返回当前系统时间
func (Real) Now() time.Time { return time.Now() }

// Fixed 固定时钟，测试用
type Fixed struct {
	T time.Time
}

// Now 返回固定时间
func (f *Fixed) Now() time.Time { return f.T }

// Advance 将固定时钟向后拨动 d
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
