package okx

import "encoding/json"

// apiResponse is the OKX v5 envelope shared by every endpoint.
type apiResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// placeOrderRequest - body for POST /api/v5/trade/order
type placeOrderRequest struct {
	InstID  string `json:"instId"`
	TdMode  string `json:"tdMode"`
	Side    string `json:"side"`
	PosSide string `json:"posSide"`
	OrdType string `json:"ordType"`
	Sz      string `json:"sz"`
	ClOrdID string `json:"clOrdId"`
}

// placeAlgoOrderRequest - body for POST /api/v5/trade/order-algo.
// Exactly one of the sl/tp pairs is set, depending on the trigger kind.
// OrdPx "-1" means execute at market once the trigger fires.
type placeAlgoOrderRequest struct {
	InstID      string `json:"instId"`
	TdMode      string `json:"tdMode"`
	Side        string `json:"side"`
	PosSide     string `json:"posSide"`
	OrdType     string `json:"ordType"`
	Sz          string `json:"sz"`
	AlgoClOrdID string `json:"algoClOrdId"`
	SlTriggerPx string `json:"slTriggerPx,omitempty"`
	SlOrdPx     string `json:"slOrdPx,omitempty"`
	TpTriggerPx string `json:"tpTriggerPx,omitempty"`
	TpOrdPx     string `json:"tpOrdPx,omitempty"`
}

// orderData is one element of the data array in trade endpoint responses.
type orderData struct {
	OrdID  string `json:"ordId"`
	AlgoID string `json:"algoId"`
	SCode  string `json:"sCode"`
	SMsg   string `json:"sMsg"`
}

// instrumentData is one element of the data array from
// GET /api/v5/public/instruments. Sizes arrive as decimal strings.
type instrumentData struct {
	InstID string `json:"instId"`
	LotSz  string `json:"lotSz"`
	MinSz  string `json:"minSz"`
	State  string `json:"state"`
}
