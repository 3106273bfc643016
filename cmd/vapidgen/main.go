// Command vapidgen prints a fresh VAPID key pair for configuring web push.
package main

import (
	"fmt"
	"log"

	"github.com/choreboard/choreboard/internal/push"
)

func main() {
	pub, priv, err := push.GenerateVAPIDKeys()
	if err != nil {
		log.Fatalf("generate VAPID keys: %v", err)
	}
	fmt.Printf("CHOREBOARD_VAPID_PUBLIC_KEY=%s\n", pub)
	fmt.Printf("CHOREBOARD_VAPID_PRIVATE_KEY=%s\n", priv)
}
