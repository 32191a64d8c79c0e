package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"dialout-service/internal/config"
	"dialout-service/internal/dialer"
	"dialout-service/internal/platform"
)

const usageText = `usage: dialout [flags] <phone-number>

Dials the destination through the configured SIP trunk and attaches the
call leg to a session room. The phone number must be in E.164 format,
e.g. +14155551234.

flags:
  -room string       room name to use instead of a generated one
  -identity string   participant identity for the SIP leg
  -metadata string   opaque metadata attached to the participant
  -timeout duration  overall attempt timeout (default DIAL_REQUEST_TIMEOUT)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("dialout", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	room := fs.String("room", "", "room name")
	identity := fs.String("identity", "", "participant identity")
	metadata := fs.String("metadata", "", "participant metadata")
	timeout := fs.Duration("timeout", 0, "attempt timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	number := fs.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return 1
	}

	// Human-readable output goes to stdout; keep structured logs quiet and
	// on stderr so the two don't interleave.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	client, err := platform.NewClient(cfg.Platform, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "platform client error:", err)
		return 1
	}
	svc, err := dialer.NewService(client, client, cfg.Dial.TrunkID, dialer.Options{Logger: log})
	if err != nil {
		fmt.Fprintln(os.Stderr, "dialer error:", err)
		return 1
	}

	wait := *timeout
	if wait <= 0 {
		wait = cfg.Dial.RequestTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	fmt.Printf("dialing %s through trunk %s\n", number, cfg.Dial.TrunkID)

	res, err := svc.CreateCall(ctx, dialer.CallRequest{
		PhoneNumber:         number,
		RoomName:            *room,
		ParticipantIdentity: *identity,
		Metadata:            *metadata,
	})
	if err != nil {
		var cerr *dialer.CallError
		if errors.As(err, &cerr) {
			fmt.Fprintf(os.Stderr, "call failed at %s: %s\n", cerr.Stage, cerr.Reason)
			if cerr.RoomSID != "" {
				fmt.Fprintf(os.Stderr, "room was already created: %s\n", cerr.RoomSID)
			}
		} else {
			fmt.Fprintln(os.Stderr, "call failed:", err)
		}
		return 1
	}

	fmt.Println("call initiated")
	fmt.Printf("  phone number:  %s\n", res.PhoneNumber)
	fmt.Printf("  room name:     %s\n", res.RoomName)
	fmt.Printf("  room sid:      %s\n", res.RoomSID)
	fmt.Printf("  participant:   %s (%s)\n", res.ParticipantID, res.ParticipantIdentity)
	fmt.Printf("  sip call id:   %s\n", res.SIPCallID)
	fmt.Println("the agent joins the room out-of-band once it sees the call")
	return 0
}
