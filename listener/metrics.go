// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

type connMetrics struct {
	accepted *prometheus.CounterVec
	active   *prometheus.GaugeVec
}

func newConnMetrics(reg prometheus.Registerer) *connMetrics {
	m := &connMetrics{
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "httpadapter",
			Subsystem: "listener",
			Name:      "accepted_connections_total",
			Help:      "Connections accepted by the listener.",
		}, []string{"ref"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "httpadapter",
			Subsystem: "listener",
			Name:      "active_connections",
			Help:      "Connections currently open on the listener.",
		}, []string{"ref"}),
	}
	m.accepted = register(reg, m.accepted)
	m.active = register(reg, m.active)
	return m
}

// register returns the already registered collector when an identical one
// exists so that several registries can share a prometheus.Registerer.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

func (m *connMetrics) connState(ref string) func(net.Conn, http.ConnState) {
	if m == nil {
		return nil
	}
	accepted := m.accepted.WithLabelValues(ref)
	active := m.active.WithLabelValues(ref)
	return func(_ net.Conn, state http.ConnState) {
		switch state {
		case http.StateNew:
			accepted.Inc()
			active.Inc()
		case http.StateClosed, http.StateHijacked:
			active.Dec()
		}
	}
}
