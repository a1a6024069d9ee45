package vso

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/Physolia/sunpy/pkg/attrs"
	"github.com/Physolia/sunpy/pkg/errors"
)

const (
	soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	vsoNS          = "http://virtualsolar.org/VSO/VSOi"

	contentTypeXML = "text/xml; charset=utf-8"
)

// soapClient speaks the provider's SOAP-like wire format. The format is
// treated as opaque transport: request blocks render to nested elements,
// responses decode by local element name only.
type soapClient struct {
	http     *http.Client
	endpoint string
}

// soapEnvelope decodes either response body we care about.
type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Query   *QueryResponse   `xml:"QueryResponse"`
	GetData *GetDataResponse `xml:"VSOGetDataResponse"`
}

// GetDataResponse carries the retrieval URLs for a data request.
type GetDataResponse struct {
	Items []DataItem `xml:"getdataitem>dataitem"`
}

// DataItem is one retrievable unit: a URL covering a set of fileids.
type DataItem struct {
	Provider string   `xml:"provider"`
	URL      string   `xml:"url"`
	FileIDs  []string `xml:"fileiditem>fileid"`
}

// query submits one request block and decodes the provider groups.
func (c *soapClient) query(ctx context.Context, block attrs.Params) (*QueryResponse, error) {
	var payload strings.Builder
	payload.WriteString("<VSO:Query><body><block>")
	encodeBlock(&payload, block)
	payload.WriteString("</block></body></VSO:Query>")

	envelope, err := c.call(ctx, "Query", payload.String())
	if err != nil {
		return nil, err
	}
	if envelope.Body.Query == nil {
		return nil, errors.NewAPIError("VSO", 0, "response carries no QueryResponse")
	}
	return envelope.Body.Query, nil
}

// getData submits a data request and decodes the retrieval URLs.
func (c *soapClient) getData(ctx context.Context, req *DataRequest) (*GetDataResponse, error) {
	var payload strings.Builder
	payload.WriteString("<VSO:GetData><request>")
	fmt.Fprintf(&payload, "<requestid>%s</requestid>", escapeXML(req.ID))
	payload.WriteString("<method><methodtype>URL-FILE</methodtype></method>")
	payload.WriteString("<datacontainer>")
	for _, item := range req.Items {
		payload.WriteString("<datarequestitem>")
		fmt.Fprintf(&payload, "<provider>%s</provider>", escapeXML(item.Provider))
		payload.WriteString("<fileiditem>")
		for _, fileID := range item.FileIDs {
			fmt.Fprintf(&payload, "<fileid>%s</fileid>", escapeXML(fileID))
		}
		payload.WriteString("</fileiditem>")
		payload.WriteString("</datarequestitem>")
	}
	payload.WriteString("</datacontainer></request></VSO:GetData>")

	envelope, err := c.call(ctx, "GetData", payload.String())
	if err != nil {
		return nil, err
	}
	if envelope.Body.GetData == nil {
		return nil, errors.NewAPIError("VSO", 0, "response carries no VSOGetDataResponse")
	}
	return envelope.Body.GetData, nil
}

func (c *soapClient) call(ctx context.Context, action, payload string) (*soapEnvelope, error) {
	var body strings.Builder
	body.WriteString(xml.Header)
	fmt.Fprintf(&body, `<SOAP-ENV:Envelope xmlns:SOAP-ENV=%q xmlns:VSO=%q>`, soapEnvelopeNS, vsoNS)
	body.WriteString("<SOAP-ENV:Body>")
	body.WriteString(payload)
	body.WriteString("</SOAP-ENV:Body></SOAP-ENV:Envelope>")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		bytes.NewReader([]byte(body.String())))
	if err != nil {
		return nil, errors.WrapAPI("VSO", 0, err)
	}
	req.Header.Set("Content-Type", contentTypeXML)
	req.Header.Set("SOAPAction", vsoNS+"#"+action)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Provider: "VSO",
			Endpoint: c.endpoint,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Provider:   "VSO",
			Endpoint:   c.endpoint,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapAPI("VSO", 0, err)
	}
	var envelope soapEnvelope
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.WrapParse("xml", c.endpoint, err)
	}
	return &envelope, nil
}

// encodeBlock renders a request block as nested elements, keys sorted so
// identical queries encode identically.
func encodeBlock(b *strings.Builder, block attrs.Params) {
	keys := make([]string, 0, len(block))
	for key := range block {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(b, "<%s>", key)
		switch value := block[key].(type) {
		case attrs.Params:
			encodeBlock(b, value)
		case string:
			b.WriteString(escapeXML(value))
		default:
			b.WriteString(escapeXML(fmt.Sprint(value)))
		}
		fmt.Fprintf(b, "</%s>", key)
	}
}

func escapeXML(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
