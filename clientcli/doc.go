// Package clientcli turns bucketctl command lines into service calls and
// prints their results.
//
// ParseInvocation validates a verb and its positional arguments without
// touching a backend. A Dispatcher runs the parsed Invocation against a
// bucketctl.Service and writes the result with a Formatter.
//
// # Basic Usage
//
//	inv, err := clientcli.ParseInvocation("list", []string{"photos", "2024/"}, clientcli.InvocationFlags{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	d := &clientcli.Dispatcher{
//		Service:   svc,
//		Formatter: clientcli.NewFormatter(false, false, false),
//		Out:       os.Stdout,
//		Err:       os.Stderr,
//	}
//	if err := d.Run(ctx, inv); err != nil {
//		os.Exit(1)
//	}
//
// # Output Formatting
//
// HumanFormatter prints one key per line, or a table with --long.
// JSONFormatter prints each result as an indented JSON document.
// Both formatters also render the profiles managed by the config package.
package clientcli
