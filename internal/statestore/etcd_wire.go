package statestore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
)

// StateRecord is the last state a host observed for one of its containers.
type StateRecord struct {
	Hostname      string
	ContainerName string
	State         domain.ContainerState
	Updated       time.Time
}

type etcdRecord struct {
	State         domain.ContainerState `json:"state"`
	OwnerHostname string                `json:"owner_hostname"`
	ContainerName string                `json:"container_name"`
	Updated       time.Time             `json:"updated"`
}

func marshalEtcdValue(rec StateRecord) (string, error) {
	wire := etcdRecord{
		State:         rec.State,
		OwnerHostname: rec.Hostname,
		ContainerName: rec.ContainerName,
		Updated:       rec.Updated,
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// The key is authoritative for hostname and container name.
func unmarshalEtcdValue(key string, raw string, prefix string) (StateRecord, error) {
	hostname, containerName, err := splitKey(prefix, key)
	if err != nil {
		return StateRecord{}, err
	}

	var wire etcdRecord
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return StateRecord{}, fmt.Errorf("decode etcd value: %w", err)
	}
	if wire.State == "" {
		return StateRecord{}, fmt.Errorf("missing state in etcd record %s", key)
	}

	return StateRecord{
		Hostname:      hostname,
		ContainerName: containerName,
		State:         wire.State,
		Updated:       wire.Updated,
	}, nil
}
