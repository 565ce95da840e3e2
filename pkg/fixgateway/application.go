package fixgateway

import (
	"bytes"
	"os"

	"github.com/joripage/go_util/pkg/shardqueue"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelreplacerequest"
	"github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/quickfixgo/tag"
	"go.uber.org/zap"
)

// DispatchMode selects how inbound application messages reach the
// exchange: on the session goroutine, through one channel, or sharded
// by ClOrdID so one client's messages stay ordered while clients run
// in parallel.
type DispatchMode string

const (
	DispatchDirect     DispatchMode = "direct"
	DispatchChannel    DispatchMode = "channel"
	DispatchShardQueue DispatchMode = "shardqueue"
)

const (
	numShards = 16
	queueSize = 1_000_000
)

type inboundMsg struct {
	msg       *quickfix.Message
	sessionID quickfix.SessionID
}

// Application implements quickfix.Application, routing order entry
// messages into the gateway.
type Application struct {
	*quickfix.MessageRouter
	gateway    *Gateway
	mode       DispatchMode
	dispatcher chan *inboundMsg
	shardQueue *shardqueue.Shardqueue
	log        *zap.Logger
}

func newApplication(gateway *Gateway, mode DispatchMode, log *zap.Logger) *Application {
	app := &Application{
		MessageRouter: quickfix.NewMessageRouter(),
		gateway:       gateway,
		mode:          mode,
		log:           log,
	}

	app.AddRoute(newordersingle.Route(app.onNewOrderSingle))
	app.AddRoute(ordercancelrequest.Route(app.onOrderCancelRequest))
	app.AddRoute(ordercancelreplacerequest.Route(app.onOrderCancelReplaceRequest))

	switch mode {
	case DispatchShardQueue:
		app.shardQueue = shardqueue.NewShardQueue(numShards, queueSize)
		app.shardQueue.Start(func(msg interface{}) error {
			if v, ok := msg.(*inboundMsg); ok {
				app.Route(v.msg, v.sessionID)
			}
			return nil
		})
	case DispatchChannel:
		app.dispatcher = make(chan *inboundMsg, queueSize)
		go app.runDispatcher()
	}

	return app
}

func startAcceptor(settingsPath string, app *Application) (*quickfix.Acceptor, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}
	settings, err := quickfix.ParseSettings(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	logFactory, err := file.NewLogFactory(settings)
	if err != nil {
		return nil, err
	}
	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewMemoryStoreFactory(), settings, logFactory)
	if err != nil {
		return nil, err
	}
	if err := acceptor.Start(); err != nil {
		return nil, err
	}
	return acceptor, nil
}

func (a *Application) OnCreate(sessionID quickfix.SessionID) {}

func (a *Application) OnLogon(sessionID quickfix.SessionID) {
	a.log.Info("fix session logon", zap.String("session", sessionID.String()))
}

func (a *Application) OnLogout(sessionID quickfix.SessionID) {
	a.log.Info("fix session logout", zap.String("session", sessionID.String()))
}

func (a *Application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}

func (a *Application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

func (a *Application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func (a *Application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	switch a.mode {
	case DispatchShardQueue:
		a.shardQueue.Shard(routingKey(msg, sessionID), &inboundMsg{msg, sessionID})
		return nil
	case DispatchChannel:
		a.dispatcher <- &inboundMsg{msg, sessionID}
		return nil
	}
	return a.Route(msg, sessionID)
}

// routingKey keeps one order's message stream on one shard.
func routingKey(msg *quickfix.Message, sessionID quickfix.SessionID) string {
	if clOrdID, err := msg.Body.GetString(tag.ClOrdID); err == nil && clOrdID != "" {
		return clOrdID
	}
	if msgType, err := msg.Header.GetString(tag.MsgType); err == nil {
		return "MSGTYPE:" + msgType
	}
	return sessionID.String()
}

func (a *Application) runDispatcher() {
	for msg := range a.dispatcher {
		if err := a.Route(msg.msg, msg.sessionID); err != nil {
			a.log.Warn("route error", zap.Error(err))
		}
	}
}

func (a *Application) onNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	symbol, _ := msg.GetSymbol()
	side, _ := msg.GetSide()
	ordType, _ := msg.GetOrdType()
	price, _ := msg.GetPrice()
	orderQty, _ := msg.GetOrderQty()
	account, _ := msg.GetAccount()
	timeInForce, _ := msg.GetTimeInForce()
	transactTime, _ := msg.GetTransactTime()

	stpMode := 0
	if v, err := msg.GetInt(tagSelfTradePrevention); err == nil {
		stpMode = v
	}

	a.gateway.handleNewOrderSingle(&newOrderSingle{
		sessionID:    sessionID,
		clOrdID:      clOrdID,
		account:      account,
		symbol:       symbol,
		side:         side,
		ordType:      ordType,
		price:        price,
		orderQty:     orderQty,
		timeInForce:  timeInForce,
		stpMode:      stpMode,
		transactTime: transactTime,
	})
	return nil
}

func (a *Application) onOrderCancelRequest(msg ordercancelrequest.OrderCancelRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	origClOrdID, _ := msg.GetOrigClOrdID()
	transactTime, _ := msg.GetTransactTime()

	a.gateway.handleOrderCancelRequest(&orderCancelRequest{
		sessionID:    sessionID,
		clOrdID:      clOrdID,
		origClOrdID:  origClOrdID,
		transactTime: transactTime,
	})
	return nil
}

func (a *Application) onOrderCancelReplaceRequest(msg ordercancelreplacerequest.OrderCancelReplaceRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	origClOrdID, _ := msg.GetOrigClOrdID()
	price, _ := msg.GetPrice()
	orderQty, _ := msg.GetOrderQty()
	transactTime, _ := msg.GetTransactTime()

	a.gateway.handleOrderCancelReplaceRequest(&orderCancelReplaceRequest{
		sessionID:    sessionID,
		clOrdID:      clOrdID,
		origClOrdID:  origClOrdID,
		price:        price,
		orderQty:     orderQty,
		transactTime: transactTime,
	})
	return nil
}
