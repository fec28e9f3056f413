package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/ebfe/scard"

	"github.com/docchip/mrtd/pkg/lds"
	"github.com/docchip/mrtd/pkg/mrtd"
	"github.com/docchip/mrtd/pkg/mrtd/bac"
)

func main() {
	mrzInfo := flag.String("mrz", "", "document number + birth date + expiry date with check digits, e.g. L898902C<369080619406236")
	flag.Parse()

	// --- 1. Hardware Setup ---
	ctx, card := connectToCard()

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Printf("Warning: Failed to release context: %v", err)
		}
	}()

	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			log.Printf("Warning: Failed to disconnect card: %v", err)
		}
	}()

	// --- 2. Logic Setup ---
	session := mrtd.NewSession(card)

	// --- 3. Execution Flow ---

	// Step 1: Probe EF.COM in the clear. Most documents refuse this and
	// demand Basic Access Control first.
	comData, open := step1ProbeCommonData(session)

	// Step 2: If the document is protected, authenticate with the MRZ-derived
	// keys and read EF.COM through the secure channel.
	if !open {
		if *mrzInfo == "" {
			log.Fatal("Document requires Basic Access Control; pass the MRZ information with -mrz.")
		}
		comData = step2Authenticate(session, *mrzInfo)
	}

	// Step 3: Interpret EF.COM to learn which data groups the document carries.
	com := step3ParseCommonData(comData)

	// Step 4: Read every announced data group.
	step4ReadDataGroups(session, com.DataGroups)

	fmt.Println("\n>> Demo Finished Successfully")
}

// =========================================================================
// Helper Functions
// =========================================================================

// connectToCard handles the PC/SC context establishment and reader connection.
func connectToCard() (*scard.Context, *scard.Card) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		log.Fatalf("Error establishing context: %s", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatal("No smart card reader found.")
	}

	fmt.Printf(">> Using reader: %s\n", readers[0])

	// Force T=0 or T=1 to avoid "Parameter Incorrect" errors (Error 57)
	card, err := ctx.Connect(readers[0], scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatalf("Error connecting to card: %s", err)
	}

	return ctx, card
}

// step1ProbeCommonData tries to read EF.COM without authentication and
// reports whether the document is open.
func step1ProbeCommonData(session *mrtd.Session) ([]byte, bool) {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 1: READ EF.COM (no authentication)")
	fmt.Println("=============================================")

	data, err := session.ReadDataGroup(mrtd.COM)
	if err == nil {
		fmt.Printf(">> Document is open, EF.COM read in the clear (%d bytes).\n", len(data))
		return data, true
	}

	var statusErr *mrtd.StatusError
	if errors.As(err, &statusErr) {
		fmt.Printf(">> Document refused: %s\n", statusErr.SW.Verbose())
		return nil, false
	}

	log.Fatalf("Communication broken: %v", err)
	return nil, false
}

// step2Authenticate runs Basic Access Control and reads EF.COM through the
// secure channel.
func step2Authenticate(session *mrtd.Session, mrzInfo string) []byte {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 2: BASIC ACCESS CONTROL")
	fmt.Println("=============================================")

	kenc, kmac := bac.DeriveDocumentKeys(mrzInfo)
	if err := bac.Authenticate(session, kenc, kmac); err != nil {
		log.Fatalf("Authentication failed (check the MRZ information): %v", err)
	}
	fmt.Println(">> Authenticated, secure messaging established.")

	data, err := session.ReadDataGroup(mrtd.COM)
	if err != nil {
		log.Fatalf("Reading EF.COM over secure messaging failed: %v", err)
	}
	fmt.Printf(">> EF.COM read over secure messaging (%d bytes).\n", len(data))

	return data
}

// step3ParseCommonData interprets EF.COM and prints its report.
func step3ParseCommonData(data []byte) *lds.COM {
	fmt.Println("\n=============================================")
	fmt.Println(" Step 3: PARSE EF.COM")
	fmt.Println("=============================================")

	com, err := lds.ParseCOM(data)
	if err != nil {
		log.Fatalf("Failed to parse EF.COM: %v", err)
	}

	fmt.Println(com.Describe())
	return com
}

// step4ReadDataGroups iterates over the announced data groups and reads each one.
func step4ReadDataGroups(session *mrtd.Session, groups []mrtd.DataGroup) {
	fmt.Println("\n=============================================")
	fmt.Printf(" Step 4: READING DATA GROUPS (%d announced)\n", len(groups))
	fmt.Println("=============================================")

	for i, dg := range groups {
		fmt.Printf("\n [File %d/%d] Reading %s...\n", i+1, len(groups), dg)

		data, err := session.ReadDataGroup(dg)
		if err != nil {
			// DG3 and DG4 sit behind terminal authentication and commonly
			// refuse; report and move on.
			var statusErr *mrtd.StatusError
			if errors.As(err, &statusErr) {
				fmt.Printf("   (!) Refused: %s\n", statusErr.SW.Verbose())
				continue
			}
			log.Printf("(!) Communication broken reading %s: %v", dg, err)
			break
		}

		fmt.Printf("   -> Read %d bytes (content tag %02X).\n", len(data), data[0])
	}
}
