package discovery

import "context"

// Advertiser announces this relay instance's address so clients and load
// balancers can find a live relay. It carries no chat state.
type Advertiser interface {
	Announce(ctx context.Context) error
	StartHeartbeat(ctx context.Context) error
	StopHeartbeat()
	Close() error
}
