package statestore

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/auto-dns/lxc-state-monitor/internal/config"
	"github.com/rs/zerolog"
)

type etcdClient interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
	Delete(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.DeleteResponse, error)
	Close() error
}

// EtcdStore mirrors observed container states into etcd.
type EtcdStore struct {
	client etcdClient
	cfg    *config.EtcdConfig
	logger zerolog.Logger
}

func NewEtcdStore(client etcdClient, cfg *config.EtcdConfig, logger zerolog.Logger) *EtcdStore {
	return &EtcdStore{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (es *EtcdStore) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(es.cfg.RequestTimeout*float64(time.Second)))
}

// Put stores rec under its host and container key, replacing the previous state.
func (es *EtcdStore) Put(ctx context.Context, rec StateRecord) error {
	value, err := marshalEtcdValue(rec)
	if err != nil {
		return err
	}
	key := keyFor(es.cfg.PathPrefix, rec.Hostname, rec.ContainerName)

	ctx, cancel := es.requestContext(ctx)
	defer cancel()
	if _, err := es.client.Put(ctx, key, value); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	es.logger.Debug().Str("key", key).Str("state", string(rec.State)).Msg("[etcd_store] Stored state")
	return nil
}

func (es *EtcdStore) Delete(ctx context.Context, hostname, containerName string) error {
	key := keyFor(es.cfg.PathPrefix, hostname, containerName)

	ctx, cancel := es.requestContext(ctx)
	defer cancel()
	if _, err := es.client.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	es.logger.Info().Str("key", key).Msg("[etcd_store] Deleted state")
	return nil
}

// List returns every state stored under the configured prefix, for all hosts.
func (es *EtcdStore) List(ctx context.Context) ([]StateRecord, error) {
	ctx, cancel := es.requestContext(ctx)
	defer cancel()
	resp, err := es.client.Get(ctx, keyPrefix(es.cfg.PathPrefix), clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", es.cfg.PathPrefix, err)
	}

	var records []StateRecord
	for _, kv := range resp.Kvs {
		keyStr := string(kv.Key)
		rec, err := unmarshalEtcdValue(keyStr, string(kv.Value), es.cfg.PathPrefix)
		if err != nil {
			es.logger.Error().Err(err).Msgf("[etcd_store] Failed to parse key: %s", keyStr)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (es *EtcdStore) Close() error {
	return es.client.Close()
}
