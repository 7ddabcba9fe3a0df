package ui

import (
	"context"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/config"
	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

// ServiceProvider gives screens access to chain services
type ServiceProvider interface {
	GetPools() dlmm.PoolLister
	GetPositions() dlmm.PositionLister
	GetOpener() dlmm.PositionOpener
	GetWallets() map[string]*wallet.Wallet
	GetLogger() *zap.Logger
	GetConfig() *config.Config
	GetContext() context.Context
	GetLogBuffer() *logger.LogBuffer
}

// Services bundles the dependencies of a ServiceProvider.
type Services struct {
	Pools     dlmm.PoolLister
	Positions dlmm.PositionLister
	Opener    dlmm.PositionOpener
	Wallets   map[string]*wallet.Wallet
	LogBuffer *logger.LogBuffer
}

// RealServiceProvider implements ServiceProvider with real services
type RealServiceProvider struct {
	services Services
	logger   *zap.Logger
	config   *config.Config
	context  context.Context
}

// NewRealServiceProvider creates a new real service provider
func NewRealServiceProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger, services Services) ServiceProvider {
	if services.Wallets == nil {
		services.Wallets = map[string]*wallet.Wallet{}
	}
	return &RealServiceProvider{
		services: services,
		logger:   logger.Named("ui_service_provider"),
		config:   cfg,
		context:  ctx,
	}
}

func (p *RealServiceProvider) GetPools() dlmm.PoolLister {
	return p.services.Pools
}

func (p *RealServiceProvider) GetPositions() dlmm.PositionLister {
	return p.services.Positions
}

func (p *RealServiceProvider) GetOpener() dlmm.PositionOpener {
	return p.services.Opener
}

// GetWallets returns the wallets keyed by name
func (p *RealServiceProvider) GetWallets() map[string]*wallet.Wallet {
	return p.services.Wallets
}

func (p *RealServiceProvider) GetLogger() *zap.Logger {
	return p.logger
}

func (p *RealServiceProvider) GetConfig() *config.Config {
	return p.config
}

func (p *RealServiceProvider) GetContext() context.Context {
	return p.context
}

// GetLogBuffer returns the buffer behind the logs screen; it may be nil.
func (p *RealServiceProvider) GetLogBuffer() *logger.LogBuffer {
	return p.services.LogBuffer
}
