package axis

import (
	"context"
	"io"

	"github.com/bytedance/sonic"

	custerror "github.com/axfleet/eventwatch/internal/error"
	fastshot "github.com/opus-domini/fast-shot"
)

type SystemApiInterface interface {
	DeviceInfo(ctx context.Context) (*SystemDeviceInfoResponse, error)
}

type systemApiClient struct {
	restClient fastshot.ClientHttpMethods
}

type basicDeviceInfoRequest struct {
	ApiVersion string `json:"apiVersion"`
	Method     string `json:"method"`
}

type SystemDeviceInfoResponse struct {
	ApiVersion string               `json:"apiVersion"`
	Data       SystemDeviceInfoData `json:"data"`
}

type SystemDeviceInfoData struct {
	PropertyList SystemDeviceInfoProperties `json:"propertyList"`
}

type SystemDeviceInfoProperties struct {
	Architecture    string `json:"Architecture,omitempty"`
	Brand           string `json:"Brand,omitempty"`
	BuildDate       string `json:"BuildDate,omitempty"`
	HardwareID      string `json:"HardwareID,omitempty"`
	ProdFullName    string `json:"ProdFullName,omitempty"`
	ProdNbr         string `json:"ProdNbr,omitempty"`
	ProdShortName   string `json:"ProdShortName,omitempty"`
	ProdType        string `json:"ProdType,omitempty"`
	SerialNumber    string `json:"SerialNumber,omitempty"`
	Soc             string `json:"Soc,omitempty"`
	SocSerialNumber string `json:"SocSerialNumber,omitempty"`
	Version         string `json:"Version,omitempty"`
	WebURL          string `json:"WebURL,omitempty"`
}

func (c *systemApiClient) DeviceInfo(ctx context.Context) (*SystemDeviceInfoResponse, error) {
	response, err := c.restClient.POST("/basicdeviceinfo.cgi").
		Context().Set(ctx).
		Body().AsJSON(&basicDeviceInfoRequest{
		ApiVersion: "1.0",
		Method:     "getAllProperties",
	}).
		Send()
	if err != nil {
		return nil, custerror.FormatUnavailable("DeviceInfo: request failed: %s", err)
	}

	if err := handleError(&response); err != nil {
		return nil, err
	}

	bodyBytes, err := io.ReadAll(response.RawBody())
	if err != nil {
		return nil, custerror.FormatInternalError("DeviceInfo: unable to read response body: %s", err)
	}

	var parsedResp SystemDeviceInfoResponse
	if err := sonic.Unmarshal(bodyBytes, &parsedResp); err != nil {
		return nil, custerror.FormatInvalidArgument("DeviceInfo: unable to parse response: %s", err)
	}

	return &parsedResp, nil
}
