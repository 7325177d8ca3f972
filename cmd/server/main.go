package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"sync"

	"github.com/cricklet/chessworker/internal/engine"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// connection serializes writes to one websocket: results and forwarded logs
// are written from different goroutines.
type connection struct {
	c     *websocket.Conn
	mutex sync.Mutex
}

func (c *connection) write(bytes []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.c.WriteMessage(websocket.TextMessage, bytes)
	if err != nil {
		log.Println("websocket:", err)
	}
}

// writeLog forwards a log line as a one element JSON array.
func (c *connection) writeLog(message string) {
	log.Print("logging: ", message)
	bytes, err := json.Marshal([]string{message})
	if err != nil {
		log.Println("logging: json marshal:", err)
		return
	}
	c.write(bytes)
}

func serveEngine(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer c.Close()

	conn := &connection{c: c}
	logger := FuncLogger(func(s string) {
		conn.writeLog(fmt.Sprintf("engine: %v", s))
	})

	e := engine.New(engine.WithLogger(logger))

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case result := <-e.Results():
				if !IsNil(result.Err) {
					conn.writeLog(fmt.Sprint("search: ", result.Err))
				}
				bytes, err := engine.EncodeResult(result)
				if !IsNil(err) {
					conn.writeLog(fmt.Sprint("result: ", err))
					continue
				}
				conn.write(bytes)
			case <-done:
				return
			}
		}
	}()

	for {
		_, bytes, err := c.ReadMessage()
		if err != nil {
			log.Println("read:", err)
			e.Stop()
			return
		}

		command, req, decodeErr := engine.DecodeMessage(bytes)
		if !IsNil(decodeErr) {
			conn.writeLog(fmt.Sprint("message: ", decodeErr))
			continue
		}

		switch command {
		case engine.StartCommand:
			startErr := e.Start(req.Value())
			if !IsNil(startErr) {
				conn.writeLog(fmt.Sprint("start: ", startErr))
			}
		case engine.StopCommand:
			e.Stop()
		}
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
		}
	}()

	port := flag.Int("port", 8002, "port to listen on")
	flag.Parse()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	router := mux.NewRouter()
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveEngine(&upgrader, w, r)
	})
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)

	log.Printf("listening on :%v", *port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", *port), router))
}
