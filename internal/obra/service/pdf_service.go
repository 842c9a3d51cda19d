package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/andamio/obralog/internal/shared/imgfetch"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Geometría de la grilla fotográfica
const (
	photoGap       = 6.0
	photoCellWidth = (usableWidth - photoGap) / 2
	photoMaxHeight = 60.0
	captionLineH   = 4.0
	photoRowGap    = 6.0
	photosPerBlock = 4

	workLogPhotoWidth  = 40.0
	workLogPhotoIndent = 10.0

	placeholderHeight = 40.0

	placeholderLoadError = "[Error al cargar imagen]"
)

// PDFService genera los documentos imprimibles del proyecto: libro de obra
// y anexo fotográfico.
type PDFService struct {
	images imgfetch.Loader
	logger *zap.Logger
}

func NewPDFService(images imgfetch.Loader, logger *zap.Logger) *PDFService {
	return &PDFService{images: images, logger: logger}
}

// BuildWorkLogPDF compone el libro de obra completo en orden cronológico.
// Cada avance de rubro con cantidad positiva incluye sus fotos en línea.
func (s *PDFService) BuildWorkLogPDF(ctx context.Context, project *entity.Project, notifier Notifier) ([]byte, string, error) {
	if project == nil || len(project.DailyLogs) == 0 {
		notifier.Notify(Notification{
			Title:       "Sin Datos",
			Description: "No hay registros diarios para exportar.",
			Severity:    SeverityWarning,
		})
		return nil, "", ErrNoExportData
	}

	notifier.Notify(Notification{
		Title:       "Generando PDF del Libro de Obra...",
		Description: "Esto puede tomar unos momentos.",
		Severity:    SeverityInfo,
	})

	logsAsc := SortLogsByDateAsc(project.DailyLogs)
	rubrosByID := indexRubros(project.Rubros)

	w := newPageWriter()
	w.title("LIBRO DE OBRA")
	s.writeProjectHeader(w, project)
	w.separator()

	for _, log := range logsAsc {
		w.ensure(30)
		w.sectionTitle("Registro del " + formatDate(log.Date))
		if log.Weather != "" {
			w.keyValue("Condiciones Climáticas:", log.Weather)
		}
		if log.WorkPerformed != "" {
			w.keyValue("Trabajo Realizado:", log.WorkPerformed)
		}
		if log.Observations != "" {
			w.keyValue("Novedades / Observaciones:", "")
			w.paragraph(log.Observations)
		}
		if log.Personnel != "" {
			w.keyValue("Personal:", "")
			w.paragraph(log.Personnel)
		}
		if log.Machinery != "" {
			w.keyValue("Maquinaria:", "")
			w.paragraph(log.Machinery)
		}
		if len(log.RubroUpdates) > 0 {
			w.keyValue("Avance de Rubros:", "")
			for _, ru := range log.RubroUpdates {
				qty := ParseQuantity(ru.QuantityExecutedToday)
				if !qty.IsPositive() {
					continue
				}
				line := fmt.Sprintf("- %s: %s %s", rubroLabel(rubrosByID, ru.RubroID), formatNumber(qty), rubroUnit(rubrosByID, ru.RubroID))
				if ru.Comment != "" {
					line += ". " + ru.Comment
				}
				w.paragraph(line)
				s.writeWorkLogPhotos(ctx, w, ru.Photos)
			}
		}
		w.separator()
	}

	data, err := renderPDF(w.pdf)
	if err != nil {
		return nil, "", err
	}

	notifier.Notify(Notification{
		Title:       "Exportación Exitosa",
		Description: "El libro de obra ha sido generado en PDF.",
		Severity:    SeveritySuccess,
	})
	return data, exportFilename(project.Name, "Libro_Obra", "pdf"), nil
}

// writeWorkLogPhotos coloca las fotos de un avance bajo su línea, a ancho
// fijo con alto proporcional. Una foto ilegible deja un marcador en su
// lugar; las fotos sin URL se omiten.
func (s *PDFService) writeWorkLogPhotos(ctx context.Context, w *pageWriter, photos []entity.Photo) {
	wrote := false
	for _, photo := range photos {
		if photo.URL == "" {
			continue
		}

		img, err := s.images.Load(ctx, photo.URL)
		if err != nil {
			s.logger.Warn("photo load failed", zap.String("photo_id", photo.ID), zap.Error(err))
			w.ensure(lineHeight)
			w.pdf.SetFont("Helvetica", "", 10)
			w.pdf.SetXY(pageMargin+workLogPhotoIndent, w.pdf.GetY())
			w.pdf.CellFormat(usableWidth-workLogPhotoIndent, lineHeight, w.tr(placeholderLoadError), "", 0, "L", false, 0, "")
			w.pdf.SetY(w.pdf.GetY() + lineHeight)
			wrote = true
			continue
		}

		imgH := workLogPhotoWidth * float64(img.Height) / float64(img.Width)
		w.ensure(imgH + lineHeight)
		name := photo.ID
		if name == "" {
			name = photo.URL
		}
		opts := fpdf.ImageOptions{ImageType: imageType(img.Format), ReadDpi: false}
		if w.pdf.GetImageInfo(name) == nil {
			w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		}
		w.pdf.ImageOptions(name, pageMargin+workLogPhotoIndent, w.pdf.GetY(), workLogPhotoWidth, imgH, false, opts, 0, "")
		w.pdf.SetY(w.pdf.GetY() + imgH + 2)

		if photo.Comment != "" {
			w.ensure(lineHeight)
			w.pdf.SetFont("Helvetica", "", 8)
			w.pdf.SetXY(pageMargin+workLogPhotoIndent, w.pdf.GetY())
			w.pdf.CellFormat(usableWidth-workLogPhotoIndent, lineHeight, w.tr("Comentario: "+photo.Comment), "", 0, "L", false, 0, "")
			w.pdf.SetY(w.pdf.GetY() + lineHeight)
		}
		wrote = true
	}
	if wrote {
		w.spacer(3)
	}
}

// annexPhoto foto del anexo con la fecha de su registro diario
type annexPhoto struct {
	photo entity.Photo
	date  time.Time
}

// photoGroup fotos de un mismo rubro a lo largo de todos los registros
type photoGroup struct {
	heading string
	photos  []annexPhoto
}

// BuildPhotoAnnexPDF compone el anexo fotográfico: las fotos se agrupan
// por rubro en orden de primera aparición, cada grupo en grilla de dos
// columnas a bloques de cuatro fotos por página. Una foto ilegible produce
// un marcador en su celda, nunca aborta el documento.
func (s *PDFService) BuildPhotoAnnexPDF(ctx context.Context, project *entity.Project, notifier Notifier) ([]byte, string, error) {
	if project == nil {
		notifier.Notify(Notification{
			Title:       "Sin Datos",
			Description: "No hay fotos para exportar.",
			Severity:    SeverityWarning,
		})
		return nil, "", ErrNoExportData
	}

	logsAsc := SortLogsByDateAsc(project.DailyLogs)
	rubrosByID := indexRubros(project.Rubros)

	groupIdx := make(map[string]int)
	var groups []photoGroup
	for _, log := range logsAsc {
		for _, ru := range log.RubroUpdates {
			for _, photo := range ru.Photos {
				if photo.URL == "" {
					continue
				}
				idx, ok := groupIdx[ru.RubroID]
				if !ok {
					idx = len(groups)
					groupIdx[ru.RubroID] = idx
					groups = append(groups, photoGroup{heading: annexHeading(rubrosByID, ru.RubroID)})
				}
				groups[idx].photos = append(groups[idx].photos, annexPhoto{photo: photo, date: log.Date})
			}
		}
	}
	if len(groups) == 0 {
		notifier.Notify(Notification{
			Title:       "Sin Fotos",
			Description: "No hay fotografías con URL asociadas a los rubros para exportar.",
			Severity:    SeverityWarning,
		})
		return nil, "", ErrNoExportData
	}

	notifier.Notify(Notification{
		Title:       "Generando Anexo Fotográfico PDF...",
		Description: "Esto puede tomar unos momentos.",
		Severity:    SeverityInfo,
	})

	w := newPageWriter()
	w.title("ANEXO FOTOGRÁFICO")
	s.writeProjectHeader(w, project)
	w.separator()

	for _, group := range groups {
		w.ensure(20)
		w.sectionTitle(group.heading)
		s.writePhotoGrid(ctx, w, group)
		w.spacer(4)
	}

	data, err := renderPDF(w.pdf)
	if err != nil {
		return nil, "", err
	}

	notifier.Notify(Notification{
		Title:       "Exportación Exitosa",
		Description: "El anexo fotográfico ha sido generado en PDF.",
		Severity:    SeveritySuccess,
	})
	return data, exportFilename(project.Name, "Anexo_Fotografico", "pdf"), nil
}

// photoCell contenido medido de una celda de la grilla
type photoCell struct {
	img         *imgfetch.LoadedImage
	imgName     string
	imgW, imgH  float64
	caption     []string
	placeholder string
}

func (c photoCell) height() float64 {
	h := c.imgH
	if c.placeholder != "" {
		h = placeholderHeight
	}
	return h + 2 + float64(len(c.caption))*captionLineH
}

// writePhotoGrid coloca las fotos del grupo en filas de dos, avanzando de
// página cada bloque de cuatro. Cada fila avanza por la celda más alta; si
// una fila no cabe en la página, se abre una nueva y el encabezado del
// grupo se repite marcado como continuación.
func (s *PDFService) writePhotoGrid(ctx context.Context, w *pageWriter, group photoGroup) {
	for blockStart := 0; blockStart < len(group.photos); blockStart += photosPerBlock {
		if blockStart > 0 {
			w.pdf.AddPage()
			w.pdf.SetY(pageMargin)
			w.sectionTitle(group.heading + " (Continuación)")
		}
		blockEnd := blockStart + photosPerBlock
		if blockEnd > len(group.photos) {
			blockEnd = len(group.photos)
		}

		for start := blockStart; start < blockEnd; start += 2 {
			end := start + 2
			if end > blockEnd {
				end = blockEnd
			}

			cells := make([]photoCell, 0, 2)
			for _, ap := range group.photos[start:end] {
				cells = append(cells, s.measureCell(ctx, w, ap))
			}

			rowHeight := 0.0
			for _, c := range cells {
				if h := c.height(); h > rowHeight {
					rowHeight = h
				}
			}

			if w.pdf.GetY()+rowHeight > pageHeight-pageMargin {
				w.pdf.AddPage()
				w.pdf.SetY(pageMargin)
				w.sectionTitle(group.heading + " (Continuación)")
			}

			rowY := w.pdf.GetY()
			for i, c := range cells {
				x := pageMargin + float64(i)*(photoCellWidth+photoGap)
				s.drawCell(w, c, x, rowY)
			}
			w.pdf.SetY(rowY + rowHeight + photoRowGap)
		}
	}
}

// measureCell carga la foto y calcula dimensiones y leyenda antes de dibujar
func (s *PDFService) measureCell(ctx context.Context, w *pageWriter, ap annexPhoto) photoCell {
	cell := photoCell{}

	cell.caption = []string{"Fecha: " + formatDate(ap.date)}
	if ap.photo.Comment != "" {
		w.pdf.SetFont("Helvetica", "", 8)
		cell.caption = append(cell.caption, w.pdf.SplitText(w.tr(ap.photo.Comment), photoCellWidth)...)
	}

	img, err := s.images.Load(ctx, ap.photo.URL)
	if err != nil {
		s.logger.Warn("photo load failed", zap.String("photo_id", ap.photo.ID), zap.Error(err))
		cell.placeholder = placeholderLoadError
		return cell
	}

	cell.img = img
	cell.imgName = ap.photo.ID
	if cell.imgName == "" {
		cell.imgName = ap.photo.URL
	}
	cell.imgW = photoCellWidth
	cell.imgH = photoCellWidth * float64(img.Height) / float64(img.Width)
	if cell.imgH > photoMaxHeight {
		cell.imgW = photoMaxHeight * float64(img.Width) / float64(img.Height)
		cell.imgH = photoMaxHeight
	}
	return cell
}

func (s *PDFService) drawCell(w *pageWriter, cell photoCell, x, y float64) {
	bottom := y
	if cell.placeholder != "" {
		w.pdf.SetDrawColor(200, 200, 200)
		w.pdf.Rect(x, y, photoCellWidth, placeholderHeight, "D")
		w.pdf.SetDrawColor(0, 0, 0)
		w.pdf.SetFont("Helvetica", "I", 8)
		w.pdf.SetXY(x, y+placeholderHeight/2-2)
		w.pdf.CellFormat(photoCellWidth, 4, w.tr(cell.placeholder), "", 0, "C", false, 0, "")
		bottom += placeholderHeight
	} else {
		opts := fpdf.ImageOptions{ImageType: imageType(cell.img.Format), ReadDpi: false}
		if w.pdf.GetImageInfo(cell.imgName) == nil {
			w.pdf.RegisterImageOptionsReader(cell.imgName, opts, bytes.NewReader(cell.img.Data))
		}
		w.pdf.ImageOptions(cell.imgName, x, y, cell.imgW, cell.imgH, false, opts, 0, "")
		bottom += cell.imgH
	}

	if len(cell.caption) > 0 {
		w.pdf.SetFont("Helvetica", "", 8)
		cy := bottom + 2
		for _, line := range cell.caption {
			w.pdf.SetXY(x, cy)
			w.pdf.CellFormat(photoCellWidth, captionLineH, line, "", 0, "L", false, 0, "")
			cy += captionLineH
		}
	}
}

func (s *PDFService) writeProjectHeader(w *pageWriter, project *entity.Project) {
	w.keyValue("Proyecto:", project.Name)
	w.keyValue("Contratista:", project.Contractor)
	w.keyValue("Ubicación:", project.Location)
	w.keyValue("Estado:", entity.ProjectStatusLabel(project.Status))
	w.keyValue("Fecha de Inicio:", formatDatePtr(project.StartDate))
	w.keyValue("Fecha de Terminación:", formatDatePtr(project.EndDateContractual))
}

func renderPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func imageType(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "JPG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	default:
		return strings.ToUpper(format)
	}
}

func rubroLabel(rubros map[string]entity.Rubro, id string) string {
	if r, ok := rubros[id]; ok {
		return strings.TrimSpace(r.RubroNumber + " " + r.Name)
	}
	return "Rubro Desconocido"
}

func rubroUnit(rubros map[string]entity.Rubro, id string) string {
	if r, ok := rubros[id]; ok {
		return r.Unit
	}
	return ""
}

func annexHeading(rubros map[string]entity.Rubro, id string) string {
	r, ok := rubros[id]
	if !ok {
		return "Rubro: Rubro Desconocido"
	}
	if r.RubroNumber != "" {
		return fmt.Sprintf("Rubro: %s - %s", r.RubroNumber, r.Name)
	}
	return "Rubro: " + r.Name
}
