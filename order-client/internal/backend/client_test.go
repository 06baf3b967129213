package backend_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tableorder/order-client/internal/backend"
	"tableorder/order-client/internal/domain"
	"tableorder/order-client/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const shopInfoJSON = `{
	"shopid": "323", "max": "20", "intervaltime": 15, "shopname": "Dragon Palace",
	"shoplogo": "/upload/logo.png", "phone": "0123", "address": "1 Main St",
	"email": "hello@example.com", "currencydefault": "EUR"
}`

func newTestServer(t *testing.T, body string, capture *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index.php", r.URL.Path)
		if capture != nil {
			*capture = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetRestaurantInfo(t *testing.T) {
	var query url.Values
	srv := newTestServer(t, shopInfoJSON, &query)
	client := backend.NewClient(srv.URL+"/", nil)

	info, err := client.GetRestaurantInfo(context.Background(), "323")

	require.NoError(t, err)
	assert.Equal(t, "shop", query.Get("ctrl"))
	assert.Equal(t, "jmGetShopInfo", query.Get("action"))
	assert.Equal(t, "323", query.Get("id"))
	assert.Equal(t, "Dragon Palace", info.ShopName)
	assert.Equal(t, domain.NumericString("15"), info.IntervalTime)
	assert.Equal(t, domain.NumericString("20"), info.Max)
}

func TestClient_GetRestaurantInfoShapeChecks(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "array", body: `[]`},
		{name: "html error page", body: `<html>maintenance</html>`},
		{name: "missing field", body: `{"shopid":"323","max":"20"}`},
		{name: "empty", body: ``},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			srv := newTestServer(t, testCase.body, nil)
			client := backend.NewClient(srv.URL, nil)

			_, err := client.GetRestaurantInfo(context.Background(), "323")

			assert.ErrorIs(t, err, backend.ErrMalformedResponse)
		})
	}
}

func TestClient_GetMenu(t *testing.T) {
	var query url.Values
	srv := newTestServer(t, `[{"id":"1","name":"Mains","det":[
		{"id":"11","product_id":"A01","typeid":"1","name":"Beef Noodles","img":"/img/11.png","cost":"12.50","count":"99","sellcount":3,"printer":null}
	]}]`, &query)
	client := backend.NewClient(srv.URL, nil)

	menu, err := client.GetMenu(context.Background(), "323")

	require.NoError(t, err)
	assert.Equal(t, "jmGetGoodsType", query.Get("action"))
	require.Len(t, menu, 1)
	require.Len(t, menu[0].Items, 1)
	assert.Equal(t, "Beef Noodles", menu[0].Items[0].Name)
	assert.Equal(t, domain.NumericString("12.50"), menu[0].Items[0].Cost)

	srv = newTestServer(t, `{"error":"closed"}`, nil)
	_, err = backend.NewClient(srv.URL, nil).GetMenu(context.Background(), "323")
	assert.ErrorIs(t, err, backend.ErrMalformedResponse)
}

func TestClient_GetTableOrderHistory(t *testing.T) {
	var query url.Values
	srv := newTestServer(t, `[{"id":"5","dno":"20240301001","time":"18:31","det":[{"goodsid":"11","goodsname":"Beef Noodles","goodscount":"2","goodscost":12.5}]}]`, &query)
	client := backend.NewClient(srv.URL, nil)

	history, err := client.GetTableOrderHistory(context.Background(), "323", "B20")

	require.NoError(t, err)
	assert.Equal(t, "order", query.Get("ctrl"))
	assert.Equal(t, "jmOrderHistory", query.Get("action"))
	assert.Equal(t, "323", query.Get("shopid"))
	assert.Equal(t, "B20", query.Get("table_num"))
	require.Len(t, history, 1)
	assert.Equal(t, domain.NumericString("12.5"), history[0].Details[0].GoodsCost)
}

func TestClient_SendOrder(t *testing.T) {
	var query url.Values
	srv := newTestServer(t, `{"code":0,"msg":"Order sent to kitchen","over":"1","type":"ok","starttime":"18:30"}`, &query)
	client := backend.NewClient(srv.URL, nil)

	resp, err := client.SendOrder(context.Background(), domain.OrderRequest{
		ShopID:      "323",
		IDs:         []string{"1", "2", "10"},
		Nums:        []string{"2", "3", "1"},
		TableNum:    "B20",
		PersonCount: 3,
		Adult:       2,
		Child:       1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Order sent to kitchen", resp.Msg)
	assert.Equal(t, domain.NumericString("0"), resp.Code)

	assert.Equal(t, "makeorder", query.Get("action"))
	assert.Equal(t, "1,2,10", query.Get("ids"))
	assert.Equal(t, "2,3,1", query.Get("nums"))
	assert.Equal(t, "B20", query.Get("table_num"))
	assert.Equal(t, "3", query.Get("person_count"))
	assert.Equal(t, "2", query.Get("adult"))
	assert.Equal(t, "1", query.Get("child"))
	assert.Equal(t, "81000", query.Get("minit"))
	assert.Equal(t, "0.00", query.Get("pscost"))
}

func TestClient_SendOrderRejectsNonObject(t *testing.T) {
	srv := newTestServer(t, `"ok"`, nil)
	client := backend.NewClient(srv.URL, nil)

	_, err := client.SendOrder(context.Background(), domain.OrderRequest{ShopID: "323"})

	assert.ErrorIs(t, err, backend.ErrMalformedResponse)
}

func TestClient_TransportError(t *testing.T) {
	httpClient := mocks.NewHTTPClient(t)
	client := backend.NewClient("http://order.example.com", httpClient)

	httpClient.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.String(), "http://order.example.com/index.php?")
	})).Return(nil, errors.New("connection refused")).Once()

	_, err := client.GetMenu(context.Background(), "323")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, backend.ErrMalformedResponse)
}

func TestClient_FillsMissingShopID(t *testing.T) {
	httpClient := mocks.NewHTTPClient(t)
	client := backend.NewClient("http://order.example.com", httpClient)

	body := strings.Replace(shopInfoJSON, `"shopid": "323", `, "", 1)
	httpClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}, nil).Once()

	info, err := client.GetRestaurantInfo(context.Background(), "323")

	require.NoError(t, err)
	assert.Equal(t, domain.NumericString("323"), info.ShopID)
}
