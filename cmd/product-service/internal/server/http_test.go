package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productmanagement/cmd/product-service/internal/biz"
	"productmanagement/cmd/product-service/internal/conf"
	"productmanagement/cmd/product-service/internal/data"
	"productmanagement/cmd/product-service/internal/domain"
	"productmanagement/cmd/product-service/internal/service"
	"productmanagement/pkg/errors"
)

const testPath = "/srv/catalog/catalog.xml"

func testConfig() *conf.Config {
	return &conf.Config{
		Server: conf.ServerConfig{
			Mode:           gin.TestMode,
			RequestTimeout: 5 * time.Second,
		},
		Data: conf.DataConfig{
			PathData:    testPath,
			Locker:      "memory",
			LockTimeout: time.Second,
		},
		Observability: conf.ObservabilityConfig{
			ServiceName:    "product-service",
			ServiceVersion: "test",
		},
	}
}

// newTestServer 组装内存文件系统上的完整服务栈
func newTestServer(t *testing.T, content string) (*HTTPServer, afero.Fs) {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	c := testConfig()

	fs := afero.NewMemMapFs()
	if content != "" {
		require.NoError(t, afero.WriteFile(fs, testPath, []byte(content), 0o644))
	}

	d, cleanup, err := data.NewData(data.NewXMLFileStore(fs, testPath, logger), data.NewMutexLocker(), c, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	notifier := biz.NewEventNotifier(nil, logger)
	svc := service.NewCatalogService(
		biz.NewCategoryUsecase(data.NewCategoryRepo(d, logger), notifier, logger),
		biz.NewProductUsecase(data.NewProductRepo(d, logger), notifier, logger),
		biz.NewSupplierUsecase(data.NewSupplierRepo(d, logger), notifier, logger),
		biz.NewOrderUsecase(data.NewOrderRepo(d, logger), notifier, logger),
	)
	return NewHTTPServer(c, svc, NewHealthChecker(c, d, nil), nil, logger), fs
}

func doRequest(t *testing.T, s *HTTPServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func readDocument(t *testing.T, fs afero.Fs) []byte {
	t.Helper()
	raw, err := afero.ReadFile(fs, testPath)
	require.NoError(t, err)
	return raw
}

func TestToolsHammerScenario(t *testing.T) {
	s, fs := newTestServer(t, "")

	doc := string(readDocument(t, fs))
	for _, collection := range []string{"Categories", "Products", "Suppliers", "Orders"} {
		assert.Contains(t, doc, "<"+collection)
	}

	w := doRequest(t, s, http.MethodPost, "/api/category", `{"name":"Tools"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[MessageResponse](t, w)
	assert.Equal(t, MessageResponse{Message: "Category created", ID: 1}, created)

	w = doRequest(t, s, http.MethodGet, "/api/category", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Category](t, w), 1)

	w = doRequest(t, s, http.MethodPost, "/api/category", `{"name":"Tools"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	conflict := decode[ErrorResponse](t, w)
	assert.Equal(t, "BIZ_20301", conflict.Reason)
	assert.Contains(t, conflict.Message, "Category not created")

	w = doRequest(t, s, http.MethodGet, "/api/category", "")
	assert.Len(t, decode[[]domain.Category](t, w), 1)

	w = doRequest(t, s, http.MethodPost, "/api/product", `{"name":"Hammer","categoryId":1,"quantity":10,"price":9.99}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[MessageResponse](t, w).ID)

	w = doRequest(t, s, http.MethodGet, "/api/product/quantity/15", "")
	require.Equal(t, http.StatusOK, w.Code)
	below15 := decode[[]domain.Product](t, w)
	require.Len(t, below15, 1)
	assert.Equal(t, "Hammer", below15[0].Name)
	assert.Equal(t, "9.99", below15[0].Price.String())

	// 价格以 JSON 数字输出，与请求体格式一致
	w = doRequest(t, s, http.MethodGet, "/api/product/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":9.99`)

	w = doRequest(t, s, http.MethodGet, "/api/product/quantity/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.Product](t, w))
}

func TestCategoryEndpoints(t *testing.T) {
	s, fs := newTestServer(t, "")
	require.Equal(t, http.StatusOK, doRequest(t, s, http.MethodPost, "/api/category", `{"name":"Tools","description":"hand tools"}`).Code)

	t.Run("GetByID", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/category/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.Category{ID: 1, Name: "Tools", Description: "hand tools"}, decode[domain.Category](t, w))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/category/9", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "Category not found", resp.Message)
		assert.Equal(t, "BIZ_20300", resp.Reason)
	})

	t.Run("InvalidID", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/category/abc", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "REQ_10100", decode[ErrorResponse](t, w).Reason)
	})

	t.Run("CreateWithoutBody", func(t *testing.T) {
		before := readDocument(t, fs)
		for _, body := range []string{"", "null"} {
			w := doRequest(t, s, http.MethodPost, "/api/category", body)
			require.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "Category not created", decode[ErrorResponse](t, w).Message)
		}
		assert.Equal(t, before, readDocument(t, fs))
	})

	t.Run("CreateMalformedBody", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/category", `{"name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "REQ_10103", decode[ErrorResponse](t, w).Reason)
	})

	t.Run("CreateEmptyName", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/category", `{"name":"  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UpdateMissing_LeavesDocumentUnchanged", func(t *testing.T) {
		before := readDocument(t, fs)
		w := doRequest(t, s, http.MethodPut, "/api/category", `{"id":7,"name":"Nope"}`)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Category not updated", decode[ErrorResponse](t, w).Message)
		assert.Equal(t, before, readDocument(t, fs))
	})

	t.Run("DeleteNegative", func(t *testing.T) {
		w := doRequest(t, s, http.MethodDelete, "/api/category/-1", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Category not deleted", decode[ErrorResponse](t, w).Message)
	})

	t.Run("UpdateThenDelete", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPut, "/api/category", `{"id":1,"name":"Hand Tools","description":""}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Category updated", decode[MessageResponse](t, w).Message)

		w = doRequest(t, s, http.MethodGet, "/api/category/1", "")
		assert.Equal(t, "Hand Tools", decode[domain.Category](t, w).Name)

		w = doRequest(t, s, http.MethodDelete, "/api/category/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Category deleted", decode[MessageResponse](t, w).Message)

		w = doRequest(t, s, http.MethodDelete, "/api/category/1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// seedCatalog 通过 HTTP 写入两个分类、三个商品、两个供应商与三个订单
func seedCatalog(t *testing.T, s *HTTPServer) {
	t.Helper()
	requests := []struct{ path, body string }{
		{"/api/category", `{"name":"Tools"}`},
		{"/api/category", `{"name":"Garden"}`},
		{"/api/product", `{"name":"Hammer","quantity":3,"price":9.99,"categoryId":1}`},
		{"/api/product", `{"name":"Wrench","quantity":12,"price":"14.50","categoryId":1}`},
		{"/api/product", `{"name":"Rake","quantity":1,"price":20,"categoryId":2}`},
		{"/api/supplier", `{"name":"Acme","contactPerson":"Ann","email":"sales@acme.test","phone":"555"}`},
		{"/api/supplier", `{"name":"Globex","email":"hi@globex.test"}`},
		{"/api/order", `{"productId":1,"quantity":2,"orderDate":"2024-01-10T00:00:00Z","supplierId":1,"status":"Pending"}`},
		{"/api/order", `{"productId":1,"quantity":1,"orderDate":"2024-02-10T00:00:00Z","supplierId":1,"status":"Shipped"}`},
		{"/api/order", `{"productId":2,"quantity":20,"orderDate":"2024-03-10T00:00:00Z","supplierId":2,"status":"Pending"}`},
	}
	for _, r := range requests {
		w := doRequest(t, s, http.MethodPost, r.path, r.body)
		require.Equal(t, http.StatusOK, w.Code, "%s %s: %s", r.path, r.body, w.Body.String())
	}
}

func TestProductEndpoints(t *testing.T) {
	s, _ := newTestServer(t, "")
	seedCatalog(t, s)

	t.Run("ByCategory_PriceDescending", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/product/category/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		products := decode[[]domain.Product](t, w)
		require.Len(t, products, 2)
		assert.Equal(t, "Wrench", products[0].Name)
		assert.Equal(t, "Hammer", products[1].Name)
	})

	t.Run("Details", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/product/1/details", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.ProductWithCategoryAndSupplier{ProductName: "Hammer", CategoryName: "Tools", SupplierName: "Acme"},
			decode[domain.ProductWithCategoryAndSupplier](t, w))
	})

	t.Run("Details_ProductWithoutOrders", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/product/3/details", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "BIZ_20311", decode[ErrorResponse](t, w).Reason)
	})

	t.Run("DetailsPage", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/product/details?pageNumber=2&pageSize=2", "")
		require.Equal(t, http.StatusOK, w.Code)
		rows := decode[[]domain.ProductWithCategoryAndSupplier](t, w)
		require.Len(t, rows, 1)
		assert.Equal(t, "Wrench", rows[0].ProductName)

		w = doRequest(t, s, http.MethodGet, "/api/product/details?pageNumber=5&pageSize=2", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]domain.ProductWithCategoryAndSupplier](t, w))
	})

	t.Run("DetailsPage_MissingQuery", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/product/details?pageNumber=1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MostOrdered", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/product/most-ordered", "")
		require.Equal(t, http.StatusOK, w.Code)
		rows := decode[[]domain.ProductOrderCount](t, w)
		require.Len(t, rows, 2)
		assert.Equal(t, domain.ProductOrderCount{ProductID: 1, ProductName: "Hammer", OrderCount: 2}, rows[0])

		w = doRequest(t, s, http.MethodGet, "/api/product/most-ordered?below=2", "")
		require.Equal(t, http.StatusOK, w.Code)
		rows = decode[[]domain.ProductOrderCount](t, w)
		require.Len(t, rows, 1)
		assert.Equal(t, "Wrench", rows[0].ProductName)
	})

	t.Run("NegativeQuantityRejected", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/product", `{"name":"Bad","quantity":-1,"price":1,"categoryId":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		w := doRequest(t, s, http.MethodDelete, "/api/product/99", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not deleted", decode[ErrorResponse](t, w).Message)
	})
}

func TestSupplierEndpoints(t *testing.T) {
	s, _ := newTestServer(t, "")
	seedCatalog(t, s)

	t.Run("EmailConflict", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/supplier", `{"name":"Acme 2","email":"sales@acme.test"}`)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "BIZ_20321", decode[ErrorResponse](t, w).Reason)
	})

	t.Run("ByProductQuantity", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/supplier/product-quantity/12", "")
		require.Equal(t, http.StatusOK, w.Code)
		suppliers := decode[[]domain.Supplier](t, w)
		require.Len(t, suppliers, 1)
		assert.Equal(t, "Globex", suppliers[0].Name)
	})

	t.Run("GetByID", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/supplier/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ann", decode[domain.Supplier](t, w).ContactPerson)
	})
}

func TestOrderEndpoints(t *testing.T) {
	s, _ := newTestServer(t, "")
	seedCatalog(t, s)

	t.Run("BySupplierAndStatus", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/order/supplier/1?status=Pending", "")
		require.Equal(t, http.StatusOK, w.Code)
		orders := decode[[]domain.Order](t, w)
		require.Len(t, orders, 1)
		assert.Equal(t, 1, orders[0].ID)
	})

	t.Run("DateRangeExclusive", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/order/date-range?startDate=2024-01-10&endDate=2024-03-10", "")
		require.Equal(t, http.StatusOK, w.Code)
		orders := decode[[]domain.Order](t, w)
		require.Len(t, orders, 1)
		assert.Equal(t, 2, orders[0].ID)
	})

	t.Run("DateRangeInvalid", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/order/date-range?startDate=yesterday&endDate=2024-03-10", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "REQ_10103", decode[ErrorResponse](t, w).Reason)
	})

	t.Run("Page", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/order/page?pageNumber=1&pageSize=2", "")
		require.Equal(t, http.StatusOK, w.Code)
		orders := decode[[]domain.Order](t, w)
		require.Len(t, orders, 2)
		assert.Equal(t, []int{1, 2}, []int{orders[0].ID, orders[1].ID})
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPut, "/api/order", `{"id":3,"productId":2,"quantity":20,"orderDate":"2024-03-10T00:00:00Z","supplierId":2,"status":"Shipped"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = doRequest(t, s, http.MethodGet, "/api/order/3", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Shipped", decode[domain.Order](t, w).Status)
	})
}

func TestDocumentErrorsMapToServerErrors(t *testing.T) {
	t.Run("FormatError", func(t *testing.T) {
		s, _ := newTestServer(t, `<?xml version="1.0" encoding="utf-8"?>
<Source>
  <Categories>
    <Category><Id>abc</Id><Name>Tools</Name><Description></Description></Category>
  </Categories>
  <Products></Products>
  <Suppliers></Suppliers>
  <Orders></Orders>
</Source>`)

		w := doRequest(t, s, http.MethodGet, "/api/category", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "DATA_30006", resp.Reason)
		assert.Contains(t, resp.Message, "Id")

		// 其他集合不受影响
		w = doRequest(t, s, http.MethodGet, "/api/supplier", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ParseError", func(t *testing.T) {
		s, _ := newTestServer(t, "<Source><Categories>")

		w := doRequest(t, s, http.MethodGet, "/api/product", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "DATA_30005", decode[ErrorResponse](t, w).Reason)
	})
}

func TestToHTTPError_CodedErrorsPassThrough(t *testing.T) {
	s, _ := newTestServer(t, "")
	ctx := context.Background()

	coded := errors.New(errors.StatusServiceUnavailable, errors.CodeDocumentBusy, "busy")
	e := s.toHTTPError(ctx, categoryEntity, opGet, fmt.Errorf("list categories: %w", coded))
	assert.Equal(t, int32(http.StatusServiceUnavailable), e.Code)
	assert.Equal(t, "DATA_30007", e.Reason)
	assert.Equal(t, "busy", e.Message)

	e = s.toHTTPError(ctx, categoryEntity, opGet, fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(e))
	assert.Equal(t, internalErrorMessage, e.Message)
}

func TestMiddlewares(t *testing.T) {
	s, _ := newTestServer(t, "")

	t.Run("RequestID", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/category", "")
		assert.NotEmpty(t, w.Header().Get(requestIDHeader))

		req := httptest.NewRequest(http.MethodGet, "/api/category", nil)
		req.Header.Set(requestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		s.Engine().ServeHTTP(rec, req)
		assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		w := doRequest(t, s, http.MethodOptions, "/api/category", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Recovery", func(t *testing.T) {
		s.Engine().GET("/panic", func(*gin.Context) { panic("boom") })

		w := doRequest(t, s, http.MethodGet, "/panic", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, internalErrorMessage, resp.Message)
		assert.Equal(t, "SYS_50000", resp.Reason)
	})

	t.Run("Timeout", func(t *testing.T) {
		handler := TimeoutMiddleware(time.Millisecond)
		engine := gin.New()
		engine.GET("/slow", handler, func(c *gin.Context) {
			<-c.Request.Context().Done()
			c.String(http.StatusOK, c.Request.Context().Err().Error())
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.Equal(t, context.DeadlineExceeded.Error(), w.Body.String())
	})
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t, "")

	w := doRequest(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = doRequest(t, s, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ready":true`)
}

func TestReadiness_DocumentUnreadable(t *testing.T) {
	s, _ := newTestServer(t, "<Source><Categories>")

	w := doRequest(t, s, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), checkDocument)
}
