package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TransactionsHeader is the column header of the ticket export.
const TransactionsHeader = "Section,Number of Seats,Ticket Price,Total Block Price,Event Date,Sale Date,Away Team,Promotion"

// SampleTransactionsCSV holds ten rows: seven valid sales covering every
// seating category and timing extreme, plus one bad price, one bad date and
// one sale after the event.
//
//	row  section          seats  price   days  category
//	1    Upper 101        2      50      0     Upper Level GA
//	2    Upper 102        2      70      2     Upper Level GA
//	3    Lower O2         4      150     37    Club
//	4    Lower H7         1      110     12    Lower Level GA
//	5    Lower A1         2      1000    103   Pitchside
//	6    Pitchside Box 3  1      300     1     Pitchside
//	7    Suite 9          2      80      3     Other
const SampleTransactionsCSV = TransactionsHeader + `
Upper 101,2,$50.00,$100.00,2024-03-09,2024-03-09,Galaxy Reserves,
Upper 102,2,$70.00,$140.00,2024-03-09,2024-03-07,Galaxy Reserves,
Lower O2,4,$150.00,$600.00,2024-03-09,2024-02-01,Galaxy Reserves,Bobblehead Night
Lower H7,1,$110.00,$110.00,2024-04-13,2024-04-01,Bay FC,
Lower A1,2,"$1,000.00","$2,000.00",2024-04-13,2024-01-01,Bay FC,
Pitchside Box 3,1,$300.00,$300.00,2024-04-13,2024-04-12,Bay FC,
Suite 9,2,$80.00,$160.00,2024-04-13,2024-04-10,Bay FC,
Upper 110,1,bad,$10.00,2024-04-13,2024-04-10,Bay FC,
Upper 111,1,$20.00,$20.00,not-a-date,2024-04-10,Bay FC,
Upper 112,1,$20.00,$20.00,2024-04-13,2024-04-20,Bay FC,
`

// WriteTransactionsCSV writes content to dir/name and returns the path.
func WriteTransactionsCSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
