/******************************************************************************
 *
 *  Description :
 *
 *    Web server initialization and shutdown.
 *
 *****************************************************************************/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"

	"github.com/roomery/chat/server/logs"
)

// TlsConfig is the TLS part of the server config.
type TlsConfig struct {
	// Flag enabling TLS.
	Enabled bool `json:"enabled"`
	// File names of the static certificate and key.
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
}

func listenAndServe(addr string, mux *http.ServeMux, tlsConfig json.RawMessage, stop <-chan bool) error {
	var tlsConf TlsConfig
	if tlsConfig != nil {
		if err := json.Unmarshal(tlsConfig, &tlsConf); err != nil {
			return errors.New("http: failed to parse tls_config: " + err.Error() + "(" + string(tlsConfig) + ")")
		}
	}

	if tlsConf.Enabled && (tlsConf.CertFile == "" || tlsConf.KeyFile == "") {
		return errors.New("http: missing certificate or key file names")
	}

	server := &http.Server{
		Addr:    addr,
		Handler: handlers.CombinedLoggingHandler(os.Stdout, mux),
	}

	httpdone := make(chan bool)
	shuttingDown := false

	go func() {
		var err error
		if tlsConf.Enabled {
			logs.Info.Printf("Listening for client HTTPS connections on [%s]", addr)
			err = server.ListenAndServeTLS(tlsConf.CertFile, tlsConf.KeyFile)
		} else {
			logs.Info.Printf("Listening for client HTTP connections on [%s]", addr)
			err = server.ListenAndServe()
		}
		if err != nil && !shuttingDown {
			logs.Error.Println("http: failed to start server:", err)
		}
		httpdone <- true
	}()

	select {
	case <-stop:
		// Flip the flag that we are terminating and close the Accept-ing
		// socket, so no new connections are possible.
		shuttingDown = true
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			// failure/timeout shutting down the server gracefully
			logs.Error.Println("http: graceful shutdown failed:", err)
		}
		statsShutdown()

	case <-httpdone:
	}

	return nil
}

// signalHandler converts SIGINT/SIGTERM into a soft stop signal.
func signalHandler() <-chan bool {
	stop := make(chan bool)
	signchan := make(chan os.Signal, 1)
	signal.Notify(signchan, os.Interrupt, syscall.SIGTERM)

	go func() {
		// Wait for a signal. Don't care which signal it is.
		sig := <-signchan
		logs.Info.Printf("Signal received: '%s', shutting down", sig)
		stop <- true
	}()

	return stop
}
