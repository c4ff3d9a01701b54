package toolscope_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/toolscope"
	"github.com/jonwraymond/toolscope/local/echo"
	"github.com/jonwraymond/toolscope/registry"
	"github.com/jonwraymond/toolscope/sandbox"
)

func Example() {
	ts, err := toolscope.New(toolscope.Options{
		Providers: []registry.Provider{echo.New()},
	})
	if err != nil {
		fmt.Println("setup:", err)
		return
	}

	result, err := ts.Execute(context.Background(), sandbox.ExecuteParams{
		Code: `
			var ping = create_proxy("echo", "ping");
			var r = ping({message: "hello"});
			println("echoed:", r.message);
			result = r.success;
		`,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		fmt.Println("execute:", err)
		return
	}

	fmt.Print(result.Output)
	fmt.Println("result:", result.Value)
	fmt.Println("tool calls:", len(result.ToolCalls))
	// Output:
	// echoed: hello
	// result: true
	// tool calls: 1
}

func Example_discovery() {
	ts, err := toolscope.New(toolscope.Options{
		Providers: []registry.Provider{echo.New()},
	})
	if err != nil {
		fmt.Println("setup:", err)
		return
	}

	result, err := ts.Execute(context.Background(), sandbox.ExecuteParams{
		Code: `
			var servers = list_servers();
			println("servers:", servers.length);
			println("tools:", get_tool_names(servers[0].name).join(", "));
			result = search("shout")[0].tool;
		`,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		fmt.Println("execute:", err)
		return
	}

	fmt.Print(result.Output)
	fmt.Println("best match:", result.Value)
	// Output:
	// servers: 1
	// tools: ping, shout
	// best match: shout
}
