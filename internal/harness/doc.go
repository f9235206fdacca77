// Package harness runs scripted txkv scenarios and checks their outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: nested_rollback
//	description: "Inner rollback only undoes the inner transaction"
//	steps:
//	  - cmd: BEGIN
//	  - cmd: SET a 10
//	  - cmd: GET a
//	    expect: "10"
//	  - cmd: ROLLBACK
//	  - cmd: GET a
//	    expect: "NULL"
//	  - cmd: COMMIT
//	    status: no_transaction
//	assertions:
//	  - type: absent
//	    keys: [a]
//	  - type: open_transactions
//	    count: 0
//
// A step's expect is the exact text the line prints. A step with expect
// omitted must print nothing unless status says otherwise.
//
// # Assertion Types
//
//   - final_state: every listed key holds the listed value
//   - absent: none of the listed keys exist
//   - open_transactions: the number of open transactions after the last step
//   - status_count: how many steps finished with a given status
//
// # Deterministic Testing
//
// Each scenario runs in a fresh Session driven by a deterministic clock,
// and its transcript is recorded into an in-memory SQLite store under a
// session id derived from the scenario name. The trace returned in Result
// is read back from that store, so identical scenarios always produce
// identical traces and digests. RunWithGolden compares the trace in the echo
// format against testdata/golden/<name>.golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/nested_rollback.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        fmt.Println(e)
//	    }
//	}
package harness
