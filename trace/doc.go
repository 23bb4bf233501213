// Package trace records BMI bus traffic into a SQLite database.
//
// A Recorder wraps any bmi.Bus and is itself a bmi.Bus, so it slots in
// between a session and its transport:
//
//	rec, err := trace.New(bus, "bmi_trace.sqlite3")
//	if err != nil {
//	    return err
//	}
//	defer rec.Close()
//
//	s := bmi.New(rec)
//
// Every ReadWrite, mailbox table query and pending-events query becomes a
// row of the bus_transaction table, tagged with the recorder's session ID
// and a sequence number.
package trace
