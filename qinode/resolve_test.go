package qinode

import (
	"testing"

	"github.com/miekg/dns"
)

func TestSrvTargetsBuildsTCPURLsAndSkipsOtherRecords(t *testing.T) {
	answer := []dns.RR{
		&dns.SRV{Target: "node1.example.com.", Port: 9559},
		&dns.SRV{Target: "node2.example.com.", Port: 19559},
		&dns.A{}, // non-SRV record, must be ignored
	}

	targets := srvTargets(answer)
	want := []string{"tcp://node1.example.com:9559", "tcp://node2.example.com:19559"}
	if len(targets) != len(want) {
		t.Fatalf("got %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("got %v, want %v", targets, want)
		}
	}
}
