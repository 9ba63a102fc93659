package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"broker-demo-service/internal/scenario"
)

// Validates a scenario file and prints what it would play: per-shipment
// script lengths and total authored runtime. Useful when authoring
// custom demos before pointing the server at them.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	path := os.Getenv("SCENARIO_PATH")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	var (
		scn *scenario.Scenario
		err error
	)
	if strings.TrimSpace(path) == "" {
		log.Println("No scenario path given; checking the embedded default")
		scn, err = scenario.Default()
	} else {
		scn, err = scenario.Load(path)
	}
	if err != nil {
		log.Fatalf("scenario invalid: %v", err)
	}

	log.Printf("scenario ok name=%q shipments=%d stagger=%s ar_handoff=%s",
		scn.Name, len(scn.Shipments), scn.Stagger(), scn.ARHandoffDelay())

	for _, sh := range scn.Seeds() {
		script := scn.Compose(sh)

		var total int
		for _, st := range script.AP {
			total += int(st.Delay.Milliseconds())
		}
		total += int(scn.ARHandoffDelay().Milliseconds())
		for _, st := range script.AR {
			total += int(st.Delay.Milliseconds())
		}

		log.Printf("shipment=%s ap_steps=%d ar_steps=%d detention=%v authored_runtime_ms=%d",
			sh.Ref, len(script.AP), len(script.AR), sh.HasDetention(), total)
	}
}
