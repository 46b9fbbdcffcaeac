package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	scriptbridge "github.com/veloq/script-bridge"
	"github.com/veloq/script-bridge/bridge"
	"github.com/veloq/script-bridge/invoker"
	"github.com/veloq/script-bridge/registry"
	"github.com/veloq/script-bridge/wazerohost"
)

func main() {
	var (
		count       = flag.Int("runtimes", 3, "Number of runtime instances to drive")
		capName     = flag.String("cap", "demo-capabilities", "Capability module ID")
		aliasName   = flag.String("alias", "", "Publish the capability module under this alias")
		profileName = flag.String("profile", "server", "Host profile name")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		bridge.SetLogger(log)
		invoker.SetLogger(log)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*capName, *aliasName, *profileName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*count, *capName, *aliasName, *profileName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newBridge(capName, aliasName, profileName string) (*bridge.Bridge, *wazerohost.Delegate, *registry.HandleRegistry, error) {
	caps := wazerohost.New(capName)
	if err := caps.RegisterFunc("add", func(_ context.Context, a, b uint32) uint32 {
		return a + b
	}); err != nil {
		return nil, nil, nil, err
	}
	if err := caps.RegisterFunc("mul", func(_ context.Context, a, b uint32) uint32 {
		return a * b
	}); err != nil {
		return nil, nil, nil, err
	}

	var delegate bridge.Delegate = caps
	if aliasName != "" {
		delegate = bridge.Alias(aliasName, caps)
	}

	reg := registry.New()
	br, err := bridge.New(reg, delegate,
		bridge.WithProfile(bridge.HostProfile{Name: profileName, NewArchitecture: true}))
	if err != nil {
		return nil, nil, nil, err
	}
	return br, caps, reg, nil
}

func run(count int, capName, aliasName, profileName string) error {
	ctx := context.Background()

	br, caps, reg, err := newBridge(capName, aliasName, profileName)
	if err != nil {
		return err
	}

	type instance struct {
		rt  *wazerohost.Runtime
		inv *invoker.SerialInvoker
	}

	var instances []instance
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("rt-%d", i)
		rt, err := wazerohost.NewRuntime(ctx, id)
		if err != nil {
			return err
		}
		inv := invoker.NewSerial(id)
		instances = append(instances, instance{rt: rt, inv: inv})

		if st := br.Install(rt, inv); !st.OK() {
			return fmt.Errorf("install %s: %s", id, st)
		}
	}

	fmt.Printf("Installed %q into %d runtime(s):\n", br.Delegate().ID(), reg.Len())
	reg.Range(func(_ scriptbridge.RuntimeHandle, rec *registry.Record) bool {
		fmt.Printf("  %-8s installed at %s\n", rec.RuntimeID, rec.InstalledAt.Format("15:04:05.000"))
		return true
	})

	// Exercise a capability through the first runtime.
	first := instances[0]
	mod := first.rt.Wazero().Module(caps.ID())
	if mod != nil {
		res, err := mod.ExportedFunction("add").Call(ctx, 19, 23)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s: add(19, 23) = %d\n\n", first.rt.RuntimeID(), res[0])
	}

	for _, inst := range instances {
		if st := br.Cleanup(inst.rt); !st.OK() {
			return fmt.Errorf("cleanup %s: %s", inst.rt.RuntimeID(), st)
		}
		inst.inv.Close()
		if err := inst.rt.Close(ctx); err != nil {
			return err
		}
	}

	fmt.Printf("Cleaned up; %d record(s) remaining\n", reg.Len())
	return nil
}
