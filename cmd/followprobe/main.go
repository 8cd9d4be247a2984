// Package main provides a probe that connects to the relation event
// websocket and prints every event it receives. Useful for verifying
// fan-out during development.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"ripple/internal/events"
)

func main() {
	host := flag.String("host", "localhost:8480", "API server host")
	token := flag.String("token", "", "JWT for the listening user")
	flag.Parse()

	if *token == "" {
		log.Fatal("-token is required")
	}

	u := url.URL{Scheme: "ws", Host: *host, Path: "/ws", RawQuery: "token=" + url.QueryEscape(*token)}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	log.Println("Connected, waiting for relation events...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Read error: %v", err)
				return
			}

			var ev events.Event
			if err := json.Unmarshal(message, &ev); err != nil {
				log.Printf("Non-event frame: %s", message)
				continue
			}
			log.Printf("%s: user %d -> user %d at %s", ev.Type, ev.Actor, ev.Target, ev.At.Format(time.RFC3339))
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("Interrupted, closing connection")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}
}
