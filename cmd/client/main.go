package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hiraku/frame-chat/internal/client"
)

func main() {
	serverAddr := flag.String("server", "localhost:12345", "Server address (e.g., localhost:12345)")
	nickname := flag.String("nickname", "", "Nickname for chat")
	transport := flag.String("transport", "tcp", "Transport to use: tcp or ws")
	plain := flag.Bool("plain", false, "Disable the terminal UI and read from stdin")
	flag.Parse()

	if *nickname == "" {
		log.Fatal("Nickname is required. Use -nickname flag")
	}

	var tr client.Transport
	switch *transport {
	case "tcp":
		tr = client.TransportTCP
	case "ws":
		tr = client.TransportWebSocket
	default:
		log.Fatalf("Unknown transport %q (want tcp or ws)", *transport)
	}

	c := client.New(*serverAddr, *nickname, tr)
	if err := c.Connect(); err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	defer c.Disconnect()

	// The first frame is the nickname; the server's welcome prompt
	// arrives on the messages channel like any other line.
	if err := c.SendNickname(); err != nil {
		log.Fatalf("Failed to send nickname: %v", err)
	}

	if *plain {
		runPlain(c)
		return
	}

	ui, err := NewChatUI(c, *serverAddr, *nickname)
	if err != nil {
		log.Fatalf("Failed to start terminal UI: %v", err)
	}
	defer ui.Close()

	if err := ui.Run(); err != nil {
		log.Fatalf("UI error: %v", err)
	}
}

// runPlain prints inbound lines to stdout and sends stdin lines as
// chat messages until EOF or "quit".
func runPlain(c *client.Client) {
	go func() {
		for msg := range c.Messages() {
			fmt.Println(msg)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}
		if err := c.Send(text); err != nil {
			log.Printf("Failed to send message: %v", err)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Error reading input: %v", err)
	}
}
