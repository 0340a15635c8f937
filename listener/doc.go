// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package listener runs named HTTP and HTTPS listeners backed by net/http.
//
// Listeners are registered in a [Registry] under a reference name. A
// registry binds the socket, runs a fixed pool of acceptor goroutines, caps
// concurrent connections and serves a compiled [Dispatch] table:
//
//	router, err := listener.Compile(listener.Dispatch{
//	    {Host: listener.AnyHost, Routes: []listener.Route{
//	        {Pattern: "/", Handler: h},
//	    }},
//	})
//	if err != nil {
//	    return err
//	}
//
//	l, err := listener.StartClear("api", 100,
//	    listener.TransportOptions{Port: 8080},
//	    listener.ProtocolOptions{Dispatch: router},
//	)
//	if err != nil {
//	    return err
//	}
//	defer listener.Stop(context.Background(), l.Ref())
//
// # Errors
//
// Every failure during start is returned as a [StartError] naming the stage
// that failed. A port that is already bound fails in [StageListen] with the
// underlying *net.OpError as cause.
//
// # Supervision
//
// A [Spec] carries everything needed to start a listener without starting
// it. [Spec.Run] starts the listener, blocks until its context is cancelled,
// then drains and stops it, which makes it easy to embed in an errgroup or
// any other runner.
package listener
