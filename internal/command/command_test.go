package command

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Command
		ok   bool
	}{
		{"buy", "BUY VEDL 18", Command{Verb: VerbBuy, Symbol: "VEDL", Shares: 18}, true},
		{"buy slash lowercase", "/buy vedl 18", Command{Verb: VerbBuy, Symbol: "VEDL", Shares: 18}, true},
		{"buy extra whitespace", "  buy   vedl   18 ", Command{Verb: VerbBuy, Symbol: "VEDL", Shares: 18}, true},
		{"buy missing shares", "BUY VEDL", Command{}, false},
		{"buy extra arg", "BUY VEDL 18 NOW", Command{}, false},
		{"buy non-integer shares", "BUY VEDL many", Command{}, false},
		{"sell", "SELL VEDL", Command{Verb: VerbSell, Symbol: "VEDL"}, true},
		{"sell slash", "/SELL VEDL", Command{Verb: VerbSell, Symbol: "VEDL"}, true},
		{"sell no arg", "SELL", Command{}, false},
		{"sell extra arg", "SELL VEDL 5", Command{}, false},
		{"reset", "RESET", Command{Verb: VerbReset}, true},
		{"reset slash", "/reset", Command{Verb: VerbReset}, true},
		{"reset with arg", "RESET ALL", Command{}, false},
		{"chatter", "hello there", Command{}, false},
		{"empty", "   ", Command{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Parse(tc.text)
			if ok != tc.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}
