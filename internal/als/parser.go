package als

import (
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults applied when the document omits the corresponding setting.
const (
	DefaultTempo      = 120.0
	DefaultTimeSigNum = 4
	DefaultTimeSigDen = 4

	// Floor for linear-gain to dB conversion; Live's fader bottoms out
	// around -70 dB.
	minVolumeDB = -70.0
)

// Parser turns a gzip-compressed Live set document into a Project. The
// zero value is usable; NewParser exists for symmetry with the other
// constructors.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// ParseFile decompresses and parses the project file at path. Invalid gzip
// or malformed XML yields *ParseError; a recognizable document missing its
// required root elements yields *UnsupportedStructureError.
func (p *Parser) ParseFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("not a gzip container: %w", err)}
	}
	defer gz.Close()

	proj, err := p.Parse(gz)
	if err != nil {
		// Stamp the path onto the typed errors produced below.
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		var ue *UnsupportedStructureError
		if errors.As(err, &ue) {
			ue.Path = path
			return nil, ue
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	if proj.Name == "" {
		proj.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return proj, nil
}

// Parse reads a decompressed Live set document. Unknown elements and
// attributes are ignored so newer schema revisions parse cleanly.
func (p *Parser) Parse(r io.Reader) (*Project, error) {
	var doc xmlAbleton
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("malformed document: %w", err)}
	}

	if doc.XMLName.Local != "Ableton" {
		return nil, &UnsupportedStructureError{Missing: "Ableton"}
	}
	if doc.LiveSet == nil {
		return nil, &UnsupportedStructureError{Missing: "LiveSet"}
	}
	if doc.LiveSet.Tracks == nil {
		return nil, &UnsupportedStructureError{Missing: "Tracks"}
	}

	proj := &Project{
		Creator:    doc.Creator,
		Tempo:      DefaultTempo,
		TimeSigNum: DefaultTimeSigNum,
		TimeSigDen: DefaultTimeSigDen,
	}

	for _, xt := range doc.LiveSet.Tracks.Entries {
		tt, ok := trackTypeFor(xt.XMLName.Local)
		if !ok {
			continue // unknown track kinds are skipped, never fatal
		}
		proj.Tracks = append(proj.Tracks, convertTrack(xt, tt))
	}

	// The master track carries set-wide tempo and time signature. Live 12
	// renamed MasterTrack to MainTrack; accept either.
	master := doc.LiveSet.MasterTrack
	if master == nil {
		master = doc.LiveSet.MainTrack
	}
	if master != nil {
		proj.Tracks = append(proj.Tracks, convertTrack(*master, TrackMaster))
		mixer := master.DeviceChain.Mixer
		if v, err := strconv.ParseFloat(mixer.Tempo.Manual.Value, 64); err == nil && v > 0 {
			proj.Tempo = v
		}
		if num, den, ok := mixer.TimeSignature.first(); ok {
			proj.TimeSigNum, proj.TimeSigDen = num, den
		}
	}

	return proj, nil
}

func trackTypeFor(element string) (TrackType, bool) {
	switch element {
	case "MidiTrack":
		return TrackMidi, true
	case "AudioTrack":
		return TrackAudio, true
	case "ReturnTrack":
		return TrackReturn, true
	case "GroupTrack":
		return TrackGroup, true
	default:
		return "", false
	}
}

func convertTrack(xt xmlTrack, tt TrackType) Track {
	mixer := xt.DeviceChain.Mixer

	t := Track{
		ID:      xt.ID,
		Name:    xt.Name.EffectiveName.Value,
		Type:    tt,
		Devices: xt.DeviceChain.Inner.Devices.devices,
	}
	if t.Name == "" {
		t.Name = xt.Name.UserName.Value
	}

	if v, err := strconv.ParseFloat(mixer.Volume.Manual.Value, 64); err == nil {
		t.VolumeDB = linearToDB(v)
	}
	if v, err := strconv.ParseFloat(mixer.Pan.Manual.Value, 64); err == nil {
		t.Pan = v
	}
	// The speaker toggle is the track activator: off means muted.
	if mixer.Speaker.Manual.Value == "false" {
		t.Muted = true
	}
	if mixer.SoloSink.Value == "true" {
		t.Soloed = true
	}
	return t
}

func linearToDB(v float64) float64 {
	if v <= 0.0003 {
		return minVolumeDB
	}
	db := 20 * math.Log10(v)
	if db < minVolumeDB {
		return minVolumeDB
	}
	return db
}

// ---- XML mirror structures ----
//
// encoding/xml drops elements and attributes with no matching field, which
// gives the forward-compatibility the format requires for free. Only the
// device list needs a custom unmarshaler, because device element names are
// the device types themselves.

type xmlVal struct {
	Value string `xml:"Value,attr"`
}

type xmlManual struct {
	Manual xmlVal `xml:"Manual"`
}

type xmlAbleton struct {
	XMLName xml.Name
	Creator string      `xml:"Creator,attr"`
	LiveSet *xmlLiveSet `xml:"LiveSet"`
}

type xmlLiveSet struct {
	Tracks      *xmlTracks `xml:"Tracks"`
	MasterTrack *xmlTrack  `xml:"MasterTrack"`
	MainTrack   *xmlTrack  `xml:"MainTrack"`
}

type xmlTracks struct {
	Entries []xmlTrack `xml:",any"`
}

type xmlTrack struct {
	XMLName xml.Name
	ID      int `xml:"Id,attr"`
	Name    struct {
		EffectiveName xmlVal `xml:"EffectiveName"`
		UserName      xmlVal `xml:"UserName"`
	} `xml:"Name"`
	DeviceChain xmlOuterChain `xml:"DeviceChain"`
}

type xmlOuterChain struct {
	Mixer struct {
		Volume        xmlManual  `xml:"Volume"`
		Pan           xmlManual  `xml:"Pan"`
		Speaker       xmlManual  `xml:"Speaker"`
		SoloSink      xmlVal     `xml:"SoloSink"`
		Tempo         xmlManual  `xml:"Tempo"`
		TimeSignature xmlTimeSig `xml:"TimeSignature"`
	} `xml:"Mixer"`
	Inner struct {
		Devices deviceList `xml:"Devices"`
	} `xml:"DeviceChain"`
}

type xmlTimeSig struct {
	TimeSignatures struct {
		Remoteable []struct {
			Numerator   xmlVal `xml:"Numerator"`
			Denominator xmlVal `xml:"Denominator"`
		} `xml:"RemoteableTimeSignature"`
	} `xml:"TimeSignatures"`
}

func (ts xmlTimeSig) first() (num, den int, ok bool) {
	for _, r := range ts.TimeSignatures.Remoteable {
		n, errN := strconv.Atoi(r.Numerator.Value)
		d, errD := strconv.Atoi(r.Denominator.Value)
		if errN == nil && errD == nil && n > 0 && d > 0 {
			return n, d, true
		}
	}
	return 0, 0, false
}

// deviceList decodes <Devices>, where every child element is one device and
// the element name is the device type. Document order is preserved exactly.
type deviceList struct {
	devices []Device
}

func (l *deviceList) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			d, err := parseDevice(dec, t)
			if err != nil {
				return err
			}
			l.devices = append(l.devices, d)
		case xml.EndElement:
			// parseDevice consumes each device subtree, so the only end
			// element seen here is </Devices> itself.
			return nil
		}
	}
}

// parseDevice walks one device subtree, collecting the enabled flag, the
// user-assigned name, the hosted plugin name, and a flattened parameter
// list in document order.
func parseDevice(dec *xml.Decoder, start xml.StartElement) (Device, error) {
	typ := start.Name.Local
	enabled := true
	var userName, plugin string
	var raws []rawParam

	for {
		tok, err := dec.Token()
		if err != nil {
			return Device{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "On":
				v, found, err := collectValue(dec, t)
				if err != nil {
					return Device{}, err
				}
				if found && v == "false" {
					enabled = false
				}
			case "UserName":
				userName = attrValue(t, "Value")
				if err := dec.Skip(); err != nil {
					return Device{}, err
				}
			case "PluginDesc":
				plugin, err = collectPluginName(dec, t)
				if err != nil {
					return Device{}, err
				}
			default:
				v, found, err := collectValue(dec, t)
				if err != nil {
					return Device{}, err
				}
				if found {
					raws = append(raws, rawParam{name: t.Name.Local, raw: v})
				}
			}
		case xml.EndElement:
			// End of the device element itself.
			cat := Classify(typ, plugin)
			return Device{
				Category: cat,
				Type:     typ,
				Name:     userName,
				Plugin:   plugin,
				Enabled:  enabled,
				Params:   buildParams(cat, raws),
			}, nil
		}
	}
}

type rawParam struct {
	name string
	raw  string
}

func buildParams(cat DeviceCategory, raws []rawParam) []Param {
	if len(raws) == 0 {
		return nil
	}
	params := make([]Param, 0, len(raws))
	for _, rp := range raws {
		p := Param{
			Key:  paramKeyFor(cat, rp.name),
			Name: rp.name,
			Raw:  rp.raw,
		}
		switch rp.raw {
		case "true":
			p.Value = 1
		case "false":
			p.Value = 0
		default:
			if v, err := strconv.ParseFloat(rp.raw, 64); err == nil {
				p.Value = v
			}
		}
		params = append(params, p)
	}
	return params
}

// collectValue extracts the element's own Value attribute, or the first
// <Manual Value="..."> in its subtree, consuming the subtree either way.
func collectValue(dec *xml.Decoder, start xml.StartElement) (string, bool, error) {
	if v := attrValue(start, "Value"); v != "" {
		return v, true, dec.Skip()
	}
	var val string
	found := false
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if !found && t.Name.Local == "Manual" {
				if v := attrValue(t, "Value"); v != "" {
					val, found = v, true
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return val, found, nil
}

// collectPluginName digs the wrapped plugin's name out of <PluginDesc>.
// VST2 stores it as <PlugName Value>, VST3 and AU as <Name Value>.
func collectPluginName(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var name string
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if name == "" && (t.Name.Local == "PlugName" || t.Name.Local == "Name") {
				name = attrValue(t, "Value")
			}
		case xml.EndElement:
			depth--
		}
	}
	return name, nil
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
