package circulation

import "time"

//go:generate mockgen -source=clock.go -destination=mocks/clock_mock.go -package=mocks

// Clock supplies the current time to the service
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
