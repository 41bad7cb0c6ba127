package botbridge_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/botbridge"
	"github.com/aretw0/botbridge/pkg/domain"
)

// ExampleBridge_Invoke runs a single-file plugin against one update.
func ExampleBridge_Invoke() {
	update, err := domain.ParseUpdate([]byte(`{"text":"hello"}`))
	if err != nil {
		log.Fatal(err)
	}

	actions, err := botbridge.New().Invoke(context.Background(), "examples/plugins/echo", update)
	if err != nil {
		log.Fatal(err)
	}

	line, _ := domain.Success(actions).Encode()
	fmt.Println(string(line))
	// Output: {"ok":true,"actions":[{"type":"send","text":"you said: hello"}]}
}

// ExampleBridge_Invoke_project runs a plugin directory with a manifest and a
// sibling module.
func ExampleBridge_Invoke_project() {
	update := domain.NewUpdate(map[string]any{
		"text": "/menu",
		"from": map[string]any{"id": float64(99)},
	})

	actions, err := botbridge.New().Invoke(context.Background(), "examples/plugins/menu", update)
	if err != nil {
		log.Fatal(err)
	}

	for _, a := range actions {
		fmt.Println(a.Type, a.GroupID, a.Text)
	}
	// Output:
	// send  pick one:
	// send_group -1001 menu opened by 99
}
