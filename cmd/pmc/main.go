/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command pmc is a demonstration front-end for the protocol package's
// build/dump dispatchers, in the shape of linuxptp's pmc tool. It does
// not open a transport: GET/SET build a request locally, loop it back
// through Parse, and dump the result, exercising the same Build ->
// wire bytes -> Parse -> Dump pipeline a real client/server pair would
// drive over a socket (transport itself is out of scope here).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/erezgeva/libptpmgmt-sub003/protocol"
	"github.com/erezgeva/libptpmgmt-sub003/protocol/hmacprovider"
)

var (
	verboseFlag bool
	domainFlag  uint8
	authKeyFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pmc",
	Short: "Build, encode and dump PTP management messages",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Uint8Var(&domainFlag, "domain", 0, "domainNumber to stamp into built headers")

	getCmd.Flags().StringVar(&authKeyFlag, "auth", "", "SPP:KeyID:secret to authenticate the built request, e.g. 0:1:mysecret")
	rootCmd.AddCommand(getCmd, setCmd, listCmd)
}

func configureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if verboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

func selfID() protocol.PortIdentity {
	clock, err := protocol.NewClockIdentity([]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	if err != nil {
		panic(err)
	}
	return protocol.PortIdentity{ClockIdentity: clock, PortNumber: 1}
}

func newParams() *protocol.MsgParams {
	params := protocol.NewMsgParams(selfID())
	params.DomainNumber = domainFlag
	params.Implementation = protocol.ImplementationLinuxptp
	return params
}

// parseAuthFlag turns "spp:keyID:secret" into an AuthConfig using the
// default SHA-256 provider, the way a caller without a real SA file
// on hand would wire one up ad hoc.
func parseAuthFlag(flag string) (*protocol.AuthConfig, error) {
	parts := strings.SplitN(flag, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected spp:keyID:secret, got %q", flag)
	}
	var spp uint64
	var keyID uint64
	if _, err := fmt.Sscanf(parts[0], "%d", &spp); err != nil {
		return nil, fmt.Errorf("bad spp %q: %w", parts[0], err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &keyID); err != nil {
		return nil, fmt.Errorf("bad keyID %q: %w", parts[1], err)
	}
	provider := hmacprovider.NewSHA256()
	if err := provider.Init([]byte(parts[2])); err != nil {
		return nil, err
	}
	return &protocol.AuthConfig{SPP: uint8(spp), KeyID: uint32(keyID), Provider: provider}, nil
}

func parseTokens(args []string) map[string]string {
	tokens := make(map[string]string, len(args))
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			continue
		}
		tokens[name] = value
	}
	return tokens
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known managementId",
	Run: func(_ *cobra.Command, _ []string) {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"managementId", "name"})
		for _, id := range protocol.KnownIDs() {
			table.Append([]string{fmt.Sprintf("0x%04x", uint16(id)), id.String()})
		}
		table.Render()
	},
}

var getCmd = &cobra.Command{
	Use:   "get <managementId>",
	Short: "Build a GET for managementId, parse it back and dump the result",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		configureVerbosity()
		runLoopback(args[0], protocol.GET, nil)
	},
}

var setCmd = &cobra.Command{
	Use:   "set <managementId> [field=value ...]",
	Short: "Build a SET for managementId from field=value tokens, parse it back and dump the result",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		configureVerbosity()
		runLoopback(args[0], protocol.SET, parseTokens(args[1:]))
	},
}

func runLoopback(name string, action protocol.Action, tokens map[string]string) {
	id, ok := protocol.FindByName(name)
	if !ok {
		fmt.Println(color.RedString("unknown managementId %q", name))
		os.Exit(1)
	}

	params := newParams()
	if authKeyFlag != "" {
		auth, err := parseAuthFlag(authKeyFlag)
		if err != nil {
			fmt.Println(color.RedString("bad --auth: %v", err))
			os.Exit(1)
		}
		params.Auth = auth
	}

	var body protocol.ManagementBody
	if action == protocol.SET {
		dispatcher := protocol.NewBuildDispatcher()
		b, err := dispatcher.Apply(id, tokens)
		if err != nil {
			fmt.Println(color.RedString("building %s: %v", name, err))
			os.Exit(1)
		}
		body = b
	}

	buf := make([]byte, 2048)
	var n int
	var err error
	if params.Auth != nil {
		n, err = protocol.BuildAuthenticated(params, action, id, body, buf)
	} else {
		n, err = protocol.Build(params, action, id, body, buf)
	}
	if err != nil {
		fmt.Println(color.RedString("encoding %s: %v", name, err))
		os.Exit(1)
	}
	log.Debugf("built %d wire bytes for %s", n, name)

	if params.Auth != nil {
		if err := protocol.VerifyAuthentication(params, buf[:n]); err != nil {
			fmt.Println(color.RedString("verifying ICV: %v", err))
			os.Exit(1)
		}
	}

	msg, err := protocol.Parse(params, buf[:n])
	if err != nil {
		fmt.Println(color.RedString("parsing loopback: %v", err))
		os.Exit(1)
	}

	dumpMessage(name, msg)
}

func dumpMessage(name string, msg *protocol.ManagementMessage) {
	dispatcher := protocol.NewDumpDispatcher()
	dumped := false
	dispatcher.OnManagement(msg.ManagementID, func(body protocol.ManagementBody) {
		dumped = true
		fmt.Println(color.GreenString("%s", name))
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"field", "value"})
		table.Append([]string{"action", msg.Action.String()})
		table.Append([]string{"body", strings.TrimSpace(spew.Sdump(body))})
		table.Render()
	})
	dispatcher.DispatchManagement(msg)

	if msg.Error != nil {
		fmt.Println(color.RedString("%s", msg.Error.Error()))
		return
	}
	if !dumped {
		fmt.Println(color.YellowString("no dump hook registered for %s (registered for demonstration only)", name))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
