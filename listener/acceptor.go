// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"errors"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
)

// acceptorPool runs a fixed number of goroutines calling Accept on the
// underlying listener and hands accepted connections to whoever calls
// Accept on the pool.
type acceptorPool struct {
	net.Listener

	conns chan net.Conn
	errs  chan error
	done  chan struct{}

	closeOnce sync.Once
	closeErr  error

	g errgroup.Group
}

func newAcceptorPool(ln net.Listener, acceptors int) *acceptorPool {
	p := &acceptorPool{
		Listener: ln,
		conns:    make(chan net.Conn),
		errs:     make(chan error),
		done:     make(chan struct{}),
	}
	for i := 0; i < acceptors; i++ {
		p.g.Go(p.acceptLoop)
	}
	return p
}

func (p *acceptorPool) acceptLoop() error {
	for {
		c, err := p.Listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			select {
			case p.errs <- err:
				continue
			case <-p.done:
				return nil
			}
		}

		select {
		case p.conns <- c:
		case <-p.done:
			c.Close()
			return nil
		}
	}
}

// Accept implements the [net.Listener] interface.
func (p *acceptorPool) Accept() (net.Conn, error) {
	select {
	case c := <-p.conns:
		return c, nil
	case err := <-p.errs:
		return nil, err
	case <-p.done:
		return nil, net.ErrClosed
	}
}

// Close implements the [net.Listener] interface. It is safe to call
// more than once.
func (p *acceptorPool) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.closeErr = p.Listener.Close()
	})
	return p.closeErr
}

// wait blocks until every acceptor goroutine has returned.
func (p *acceptorPool) wait() {
	p.g.Wait()
}
