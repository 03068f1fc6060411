package domain

import "time"

// Clock fuente de "ahora" para los motores (inyectable en tests).
type Clock interface {
	Now() time.Time
}

// SystemClock usa el reloj del sistema, siempre en UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock devuelve siempre el mismo instante.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
